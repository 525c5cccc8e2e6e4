package calendify

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sarveshmina/calendify/pkg/models"
)

const (
	minUsernameLen = 5
	maxUsernameLen = 15
	minPasswordLen = 8
	maxPasswordLen = 15

	defaultCalendarName = "My Calendar"
)

// RegisterRequest is the payload of account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// ProfilePatch updates the mutable fields of a profile. Nil fields are left
// unchanged.
type ProfilePatch struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Register creates an account and its default calendar.
//
// The two writes are not atomic: when the calendar write fails after the user
// document is committed, the account exists without a default calendar and the
// error surfaces to the caller, who can retry under a different username or
// have the row repaired. The welcome email is best-effort and never fails the
// registration.
func (a *App) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if len(req.Username) < minUsernameLen || len(req.Username) > maxUsernameLen {
		return nil, validation("username must be between %d and %d characters", minUsernameLen, maxUsernameLen)
	}
	if len(req.Password) < minPasswordLen || len(req.Password) > maxPasswordLen {
		return nil, validation("password must be between %d and %d characters", minPasswordLen, maxPasswordLen)
	}

	existing, err := a.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, storeErr(err, "failed to check username %q", req.Username)
	}
	if existing != nil {
		return nil, validation("username %q is already taken", req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, storeErr(err, "failed to hash password")
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:           models.NewUserID(),
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		CalendarIDs:  []models.CalendarID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, storeErr(err, "failed to create user")
	}

	cal := &models.Calendar{
		ID:        models.NewCalendarID(),
		Name:      defaultCalendarName,
		OwnerID:   user.ID,
		IsGroup:   false,
		IsDefault: true,
		Members:   []models.UserID{user.ID},
		Color:     models.ColorBlue,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.CreateCalendar(ctx, cal); err != nil {
		return nil, storeErr(err, "user created but default calendar write failed")
	}

	user.DefaultCalendarID = cal.ID
	user.CalendarIDs = []models.CalendarID{cal.ID}
	if err := a.store.UpdateUser(ctx, user); err != nil {
		return nil, storeErr(err, "user created but default calendar link failed")
	}

	if err := a.notifier.Welcome(ctx, user); err != nil {
		a.logger.Warn().Err(err).Str("user", user.Username).Msg("welcome email failed")
	}

	return user, nil
}

// Login verifies credentials and returns a signed session token with the user.
func (a *App) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := a.store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", nil, storeErr(err, "failed to look up user %q", username)
	}
	if user == nil {
		return "", nil, notFound("user %q not found", username)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, unauthorized("invalid credentials")
	}

	token, err := a.issueToken(user.ID)
	if err != nil {
		return "", nil, storeErr(err, "failed to issue token")
	}
	return token, user, nil
}

// GetProfile loads the user by ID.
func (a *App) GetProfile(ctx context.Context, userID models.UserID) (*models.User, error) {
	user, err := a.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "failed to load user %s", userID)
	}
	if user == nil {
		return nil, notFound("user %s not found", userID)
	}
	return user, nil
}

// UpdateProfile applies patch to the user's mutable fields. An empty patch is
// rejected rather than silently accepted.
func (a *App) UpdateProfile(ctx context.Context, userID models.UserID, patch ProfilePatch) (*models.User, error) {
	if patch.Email == nil && patch.Password == nil {
		return nil, validation("nothing to update")
	}

	user, err := a.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		if len(*patch.Password) < minPasswordLen || len(*patch.Password) > maxPasswordLen {
			return nil, validation("password must be between %d and %d characters", minPasswordLen, maxPasswordLen)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, storeErr(err, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now().UTC()

	if err := a.store.UpdateUser(ctx, user); err != nil {
		return nil, storeErr(err, "failed to update user %s", userID)
	}
	return user, nil
}
