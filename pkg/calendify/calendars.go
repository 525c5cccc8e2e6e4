package calendify

import (
	"context"
	"time"

	"github.com/sarveshmina/calendify/pkg/models"
)

// CalendarPatch updates a calendar's mutable metadata. Nil fields stay
// unchanged.
type CalendarPatch struct {
	Name  *string       `json:"name"`
	Color *models.Color `json:"color"`
}

// loadCalendar fetches the calendar or returns a not-found error.
func (a *App) loadCalendar(ctx context.Context, id models.CalendarID) (*models.Calendar, error) {
	cal, err := a.store.GetCalendar(ctx, id)
	if err != nil {
		return nil, storeErr(err, "failed to load calendar %s", id)
	}
	if cal == nil {
		return nil, notFound("calendar %s not found", id)
	}
	return cal, nil
}

// CreatePersonalCalendar creates a single-member calendar owned by actor.
func (a *App) CreatePersonalCalendar(ctx context.Context, actor models.UserID, name string, color models.Color) (*models.Calendar, error) {
	if name == "" {
		return nil, validation("calendar name is required")
	}
	if color == "" {
		color = models.ColorBlue
	}
	if !color.Valid() {
		return nil, validation("invalid color %q", color)
	}

	now := time.Now().UTC()
	cal := &models.Calendar{
		ID:        models.NewCalendarID(),
		Name:      name,
		OwnerID:   actor,
		IsGroup:   false,
		Members:   []models.UserID{actor},
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.CreateCalendar(ctx, cal); err != nil {
		return nil, storeErr(err, "failed to create calendar")
	}
	a.linkCalendar(ctx, actor, cal.ID)
	return cal, nil
}

// CreateGroupCalendar creates a group calendar with actor as owner and the
// named users as members.
//
// Member usernames resolve before anything is written: one unknown username
// fails the whole operation with no partial calendar. The owner is always a
// member whether or not their own username appears in the list. Invited
// members get a best-effort email.
func (a *App) CreateGroupCalendar(ctx context.Context, actor models.UserID, name string, color models.Color, memberUsernames []string) (*models.Calendar, error) {
	if name == "" {
		return nil, validation("calendar name is required")
	}
	if color == "" {
		color = models.ColorBlue
	}
	if !color.Valid() {
		return nil, validation("invalid color %q", color)
	}

	owner, err := a.GetProfile(ctx, actor)
	if err != nil {
		return nil, err
	}

	members := []models.UserID{actor}
	invited := []*models.User{}
	for _, username := range memberUsernames {
		u, err := a.store.GetUserByUsername(ctx, username)
		if err != nil {
			return nil, storeErr(err, "failed to resolve username %q", username)
		}
		if u == nil {
			return nil, memberNotFound("no user named %q", username)
		}
		dup := false
		for _, m := range members {
			if m == u.ID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		members = append(members, u.ID)
		invited = append(invited, u)
	}
	if len(members) > models.MaxGroupMembers {
		return nil, capacityExceeded("group calendars hold at most %d members", models.MaxGroupMembers)
	}

	now := time.Now().UTC()
	cal := &models.Calendar{
		ID:        models.NewCalendarID(),
		Name:      name,
		OwnerID:   actor,
		IsGroup:   true,
		Members:   members,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.store.CreateCalendar(ctx, cal); err != nil {
		return nil, storeErr(err, "failed to create calendar")
	}

	for _, m := range members {
		a.linkCalendar(ctx, m, cal.ID)
	}
	for _, u := range invited {
		if err := a.notifier.GroupInvite(ctx, u, cal, owner); err != nil {
			a.logger.Warn().Err(err).Str("user", u.Username).Str("calendar", cal.Name).Msg("invite email failed")
		}
	}
	return cal, nil
}

// GetCalendarForMember returns the calendar when actor is a member of it.
func (a *App) GetCalendarForMember(ctx context.Context, actor models.UserID, id models.CalendarID) (*models.Calendar, error) {
	cal, err := a.loadCalendar(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsMember(cal, actor) {
		return nil, notAMember("user %s is not a member of calendar %s", actor, id)
	}
	return cal, nil
}

// EditCalendar renames or recolors a calendar. Owner only; an empty patch is
// rejected.
func (a *App) EditCalendar(ctx context.Context, actor models.UserID, id models.CalendarID, patch CalendarPatch) (*models.Calendar, error) {
	if patch.Name == nil && patch.Color == nil {
		return nil, validation("nothing to update")
	}

	cal, err := a.loadCalendar(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsOwner(cal, actor) {
		return nil, forbidden("only the owner may edit calendar %s", id)
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, validation("calendar name cannot be empty")
		}
		cal.Name = *patch.Name
	}
	if patch.Color != nil {
		if !patch.Color.Valid() {
			return nil, validation("invalid color %q", *patch.Color)
		}
		cal.Color = *patch.Color
	}
	cal.UpdatedAt = time.Now().UTC()

	if err := a.store.UpdateCalendar(ctx, cal); err != nil {
		return nil, storeErr(err, "failed to update calendar %s", id)
	}
	return cal, nil
}

// AddMember adds userID to a group calendar. Owner only. Adding an existing
// member succeeds without a second write, so retried requests are harmless.
func (a *App) AddMember(ctx context.Context, actor models.UserID, calID models.CalendarID, userID models.UserID) (*models.Calendar, error) {
	cal, err := a.loadCalendar(ctx, calID)
	if err != nil {
		return nil, err
	}
	if err := CanMutateGroup(cal, actor); err != nil {
		return nil, err
	}

	user, err := a.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "failed to load user %s", userID)
	}
	if user == nil {
		return nil, memberNotFound("user %s not found", userID)
	}

	if IsMember(cal, userID) {
		return cal, nil
	}
	if len(cal.Members) >= models.MaxGroupMembers {
		return nil, capacityExceeded("calendar %s already has %d members", calID, models.MaxGroupMembers)
	}

	cal.Members = append(cal.Members, userID)
	cal.UpdatedAt = time.Now().UTC()
	if err := a.store.UpdateCalendar(ctx, cal); err != nil {
		return nil, storeErr(err, "failed to update calendar %s", calID)
	}

	a.linkCalendar(ctx, userID, calID)

	owner, err := a.store.GetUser(ctx, actor)
	if err == nil && owner != nil {
		if err := a.notifier.GroupInvite(ctx, user, cal, owner); err != nil {
			a.logger.Warn().Err(err).Str("user", user.Username).Str("calendar", cal.Name).Msg("invite email failed")
		}
	}
	return cal, nil
}

// RemoveMember removes userID from a group calendar. Owner only. The owner
// cannot be removed this way; ownership changes only through LeaveCalendar.
// Removing a non-member succeeds without a write.
func (a *App) RemoveMember(ctx context.Context, actor models.UserID, calID models.CalendarID, userID models.UserID) (*models.Calendar, error) {
	cal, err := a.loadCalendar(ctx, calID)
	if err != nil {
		return nil, err
	}
	if err := CanMutateGroup(cal, actor); err != nil {
		return nil, err
	}
	if userID == cal.OwnerID {
		return nil, validation("the owner cannot be removed; the owner must leave the calendar instead")
	}
	if !IsMember(cal, userID) {
		return cal, nil
	}

	cal.Members = removeID(cal.Members, userID)
	cal.UpdatedAt = time.Now().UTC()
	if err := a.store.UpdateCalendar(ctx, cal); err != nil {
		return nil, storeErr(err, "failed to update calendar %s", calID)
	}

	a.unlinkCalendar(ctx, userID, calID)
	return cal, nil
}

// LeaveCalendar removes actor from a group calendar they belong to.
//
// When the owner leaves, ownership passes to the first remaining member in
// insertion order. A sole-member owner cannot leave; the calendar must be
// deleted instead, otherwise it would be left with no members at all.
func (a *App) LeaveCalendar(ctx context.Context, actor models.UserID, calID models.CalendarID) (*models.Calendar, error) {
	cal, err := a.loadCalendar(ctx, calID)
	if err != nil {
		return nil, err
	}
	if !cal.IsGroup {
		return nil, validation("calendar %s is not a group calendar", calID)
	}
	if !IsMember(cal, actor) {
		return nil, notAMember("user %s is not a member of calendar %s", actor, calID)
	}

	if IsOwner(cal, actor) {
		if len(cal.Members) == 1 {
			return nil, soleMember("the sole member cannot leave calendar %s; delete it instead", calID)
		}
		cal.Members = removeID(cal.Members, actor)
		cal.OwnerID = cal.Members[0]
	} else {
		cal.Members = removeID(cal.Members, actor)
	}
	cal.UpdatedAt = time.Now().UTC()

	if err := a.store.UpdateCalendar(ctx, cal); err != nil {
		return nil, storeErr(err, "failed to update calendar %s", calID)
	}

	a.unlinkCalendar(ctx, actor, calID)
	return cal, nil
}

// DeleteCalendar deletes a calendar and its events. Owner only; default
// calendars are protected.
//
// The cascade is not atomic: events are deleted one at a time before the
// calendar document itself, and a store failure stops the cascade with the
// calendar still present. Because each delete is idempotent the caller can
// simply retry until the whole cascade goes through.
func (a *App) DeleteCalendar(ctx context.Context, actor models.UserID, calID models.CalendarID) error {
	cal, err := a.loadCalendar(ctx, calID)
	if err != nil {
		return err
	}
	if err := CanDeleteCalendar(cal, actor); err != nil {
		return err
	}

	events, err := a.store.ListEvents(ctx, calID)
	if err != nil {
		return storeErr(err, "failed to list events of calendar %s", calID)
	}
	for _, ev := range events {
		if err := a.store.DeleteEvent(ctx, ev.ID); err != nil {
			return storeErr(err, "cascade stopped: failed to delete event %s", ev.ID)
		}
	}

	if err := a.store.DeleteCalendar(ctx, calID); err != nil {
		return storeErr(err, "failed to delete calendar %s", calID)
	}

	for _, m := range cal.Members {
		a.unlinkCalendar(ctx, m, calID)
	}
	return nil
}

// ListUserCalendars returns every calendar the user is a member of, in
// creation order.
func (a *App) ListUserCalendars(ctx context.Context, userID models.UserID) ([]*models.Calendar, error) {
	cals, err := a.store.ListCalendarsByMember(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "failed to list calendars of user %s", userID)
	}
	return cals, nil
}

// linkCalendar adds calID to the user's denormalized calendar list. The
// member list on the calendar is authoritative, so a failure here only skews
// the convenience copy and is logged rather than surfaced.
func (a *App) linkCalendar(ctx context.Context, userID models.UserID, calID models.CalendarID) {
	user, err := a.store.GetUser(ctx, userID)
	if err != nil || user == nil {
		a.logger.Warn().Err(err).Str("user", userID.String()).Msg("calendar link skipped")
		return
	}
	for _, id := range user.CalendarIDs {
		if id == calID {
			return
		}
	}
	user.CalendarIDs = append(user.CalendarIDs, calID)
	user.UpdatedAt = time.Now().UTC()
	if err := a.store.UpdateUser(ctx, user); err != nil {
		a.logger.Warn().Err(err).Str("user", userID.String()).Msg("calendar link failed")
	}
}

// unlinkCalendar removes calID from the user's denormalized calendar list,
// best-effort like linkCalendar.
func (a *App) unlinkCalendar(ctx context.Context, userID models.UserID, calID models.CalendarID) {
	user, err := a.store.GetUser(ctx, userID)
	if err != nil || user == nil {
		a.logger.Warn().Err(err).Str("user", userID.String()).Msg("calendar unlink skipped")
		return
	}
	out := user.CalendarIDs[:0]
	for _, id := range user.CalendarIDs {
		if id != calID {
			out = append(out, id)
		}
	}
	if len(out) == len(user.CalendarIDs) {
		return
	}
	user.CalendarIDs = out
	user.UpdatedAt = time.Now().UTC()
	if err := a.store.UpdateUser(ctx, user); err != nil {
		a.logger.Warn().Err(err).Str("user", userID.String()).Msg("calendar unlink failed")
	}
}

func removeID(ids []models.UserID, id models.UserID) []models.UserID {
	out := ids[:0]
	for _, m := range ids {
		if m != id {
			out = append(out, m)
		}
	}
	return out
}
