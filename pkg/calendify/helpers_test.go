package calendify

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sarveshmina/calendify/pkg/models"
	"github.com/sarveshmina/calendify/pkg/notify"
	"github.com/sarveshmina/calendify/pkg/store"
	"github.com/sarveshmina/calendify/pkg/store/memory"
)

// recordingNotifier captures notifications and can be told to fail, to prove
// that delivery failures never fail the triggering operation.
type recordingNotifier struct {
	mu       sync.Mutex
	welcomes []string
	invites  []string
	events   []string
	fail     error
}

var _ notify.Notifier = (*recordingNotifier)(nil)

func (n *recordingNotifier) Welcome(ctx context.Context, user *models.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomes = append(n.welcomes, user.Username)
	return n.fail
}

func (n *recordingNotifier) GroupInvite(ctx context.Context, user *models.User, cal *models.Calendar, inviter *models.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invites = append(n.invites, user.Username)
	return n.fail
}

func (n *recordingNotifier) EventCreated(ctx context.Context, user *models.User, event *models.Event, cal *models.Calendar, creator *models.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, user.Username)
	return n.fail
}

func newTestApp(t *testing.T) (*App, store.Store, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	app := NewWith(&Config{JWTSecret: "test-secret"}, memory.New(), notifier)
	return app, app.Store(), notifier
}

// seedUser writes a user straight into the store, skipping bcrypt and the
// default-calendar saga for speed. Tests that exercise registration itself
// use Register instead.
func seedUser(t *testing.T, s store.Store, username string) *models.User {
	t.Helper()
	now := time.Now().UTC()
	user := &models.User{
		ID:           models.NewUserID(),
		Username:     username,
		PasswordHash: "not-a-real-hash",
		Email:        username + "@example.com",
		CalendarIDs:  []models.CalendarID{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func at(t *testing.T, hour, min int) time.Time {
	t.Helper()
	return time.Date(2026, time.March, 10, hour, min, 0, 0, time.UTC)
}
