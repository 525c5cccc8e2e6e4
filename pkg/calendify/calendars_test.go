package calendify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarveshmina/calendify/pkg/models"
	"github.com/sarveshmina/calendify/pkg/store"
	"github.com/sarveshmina/calendify/pkg/store/memory"
)

func TestCreateGroupCalendarResolvesUsernames(t *testing.T) {
	app, s, notifier := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bobby")

	cal, err := app.CreateGroupCalendar(ctx, alice.ID, "Team", models.ColorPurple, []string{"bobby"})
	require.NoError(t, err)
	assert.True(t, cal.IsGroup)
	assert.Equal(t, alice.ID, cal.OwnerID)
	assert.Equal(t, []models.UserID{alice.ID, bob.ID}, cal.Members)
	assert.Equal(t, []string{"bobby"}, notifier.invites)

	// Both members see the calendar in their listings.
	for _, id := range []models.UserID{alice.ID, bob.ID} {
		cals, err := app.ListUserCalendars(ctx, id)
		require.NoError(t, err)
		require.Len(t, cals, 1)
		assert.Equal(t, cal.ID, cals[0].ID)
	}
}

func TestCreateGroupCalendarUnknownUsernameWritesNothing(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	seedUser(t, s, "bobby")

	_, err := app.CreateGroupCalendar(ctx, alice.ID, "Team", models.ColorPurple, []string{"bobby", "ghost"})
	require.Error(t, err)
	assert.Equal(t, KindMemberNotFound, KindOf(err))

	cals, err := app.ListUserCalendars(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, cals)
}

func TestCreateGroupCalendarDeduplicatesOwner(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bobby")

	cal, err := app.CreateGroupCalendar(ctx, alice.ID, "Team", models.ColorBlue, []string{"alice", "bobby", "bobby"})
	require.NoError(t, err)
	assert.Equal(t, []models.UserID{alice.ID, bob.ID}, cal.Members)
}

func TestCreateGroupCalendarCap(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	names := []string{"user1", "user2", "user3", "user4", "user5"}
	for _, n := range names {
		seedUser(t, s, n)
	}

	// Owner plus four fits exactly.
	_, err := app.CreateGroupCalendar(ctx, alice.ID, "Full", models.ColorBlue, names[:4])
	require.NoError(t, err)

	// Owner plus five does not.
	_, err = app.CreateGroupCalendar(ctx, alice.ID, "Overfull", models.ColorBlue, names)
	require.Error(t, err)
	assert.Equal(t, KindCapacityExceeded, KindOf(err))
}

func TestAddMember(t *testing.T) {
	app, s, notifier := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bobby")
	carol := seedUser(t, s, "carol")

	cal, err := app.CreateGroupCalendar(ctx, alice.ID, "Team", models.ColorBlue, nil)
	require.NoError(t, err)

	// Non-owner may not add.
	_, err = app.AddMember(ctx, bob.ID, cal.ID, carol.ID)
	assert.Equal(t, KindForbidden, KindOf(err))

	cal, err = app.AddMember(ctx, alice.ID, cal.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, cal.HasMember(bob.ID))
	assert.Equal(t, []string{"bobby"}, notifier.invites)

	// Adding again is a no-op, not an error and not a second invite.
	cal, err = app.AddMember(ctx, alice.ID, cal.ID, bob.ID)
	require.NoError(t, err)
	assert.Len(t, cal.Members, 2)
	assert.Equal(t, []string{"bobby"}, notifier.invites)

	// Unknown user.
	_, err = app.AddMember(ctx, alice.ID, cal.ID, models.NewUserID())
	assert.Equal(t, KindMemberNotFound, KindOf(err))

	// Fill to the cap, then the next add fails.
	cal, err = app.AddMember(ctx, alice.ID, cal.ID, carol.ID)
	require.NoError(t, err)
	for _, n := range []string{"dave1", "erin1"} {
		u := seedUser(t, s, n)
		cal, err = app.AddMember(ctx, alice.ID, cal.ID, u.ID)
		require.NoError(t, err)
	}
	require.Len(t, cal.Members, models.MaxGroupMembers)

	frank := seedUser(t, s, "frank")
	_, err = app.AddMember(ctx, alice.ID, cal.ID, frank.ID)
	assert.Equal(t, KindCapacityExceeded, KindOf(err))
}

func TestRemoveMember(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bobby")

	cal, err := app.CreateGroupCalendar(ctx, alice.ID, "Team", models.ColorBlue, []string{"bobby"})
	require.NoError(t, err)

	// The owner is not removable, they have to leave.
	_, err = app.RemoveMember(ctx, alice.ID, cal.ID, alice.ID)
	assert.Equal(t, KindValidation, KindOf(err))

	cal, err = app.RemoveMember(ctx, alice.ID, cal.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, cal.HasMember(bob.ID))

	bobCals, err := app.ListUserCalendars(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobCals)

	// Removing again is an idempotent no-op.
	cal, err = app.RemoveMember(ctx, alice.ID, cal.ID, bob.ID)
	require.NoError(t, err)
	assert.Len(t, cal.Members, 1)
}

func TestLeaveCalendarSuccession(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bobby")
	carol := seedUser(t, s, "carol")

	cal, err := app.CreateGroupCalendar(ctx, alice.ID, "Team", models.ColorBlue, []string{"bobby", "carol"})
	require.NoError(t, err)

	// Ownership passes to the first remaining member in insertion order.
	cal, err = app.LeaveCalendar(ctx, alice.ID, cal.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, cal.OwnerID)
	assert.Equal(t, []models.UserID{bob.ID, carol.ID}, cal.Members)

	// A non-member cannot leave.
	_, err = app.LeaveCalendar(ctx, alice.ID, cal.ID)
	assert.Equal(t, KindNotAMember, KindOf(err))

	// Ordinary member leaves without an ownership change.
	cal, err = app.LeaveCalendar(ctx, carol.ID, cal.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, cal.OwnerID)
	assert.Equal(t, []models.UserID{bob.ID}, cal.Members)

	// The last member standing cannot leave.
	_, err = app.LeaveCalendar(ctx, bob.ID, cal.ID)
	assert.Equal(t, KindSoleMember, KindOf(err))
}

func TestEditCalendar(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bobby")

	cal, err := app.CreateGroupCalendar(ctx, alice.ID, "Team", models.ColorBlue, []string{"bobby"})
	require.NoError(t, err)

	_, err = app.EditCalendar(ctx, alice.ID, cal.ID, CalendarPatch{})
	assert.Equal(t, KindValidation, KindOf(err))

	name := "Renamed"
	_, err = app.EditCalendar(ctx, bob.ID, cal.ID, CalendarPatch{Name: &name})
	assert.Equal(t, KindForbidden, KindOf(err))

	bad := models.Color("magenta")
	_, err = app.EditCalendar(ctx, alice.ID, cal.ID, CalendarPatch{Color: &bad})
	assert.Equal(t, KindValidation, KindOf(err))

	color := models.ColorRed
	cal, err = app.EditCalendar(ctx, alice.ID, cal.ID, CalendarPatch{Name: &name, Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", cal.Name)
	assert.Equal(t, models.ColorRed, cal.Color)
}

// flakyStore fails a configured number of event deletes before recovering,
// simulating a store outage in the middle of a cascade.
type flakyStore struct {
	store.Store
	failDeletes int
}

func (f *flakyStore) DeleteEvent(ctx context.Context, id models.EventID) error {
	if f.failDeletes > 0 {
		f.failDeletes--
		return errors.New("store unavailable")
	}
	return f.Store.DeleteEvent(ctx, id)
}

func TestDeleteCalendarCascade(t *testing.T) {
	notifier := &recordingNotifier{}
	flaky := &flakyStore{Store: memory.New()}
	app := NewWith(&Config{JWTSecret: "test-secret"}, flaky, notifier)
	ctx := context.Background()

	alice := seedUser(t, app.Store(), "alice")
	cal, err := app.CreatePersonalCalendar(ctx, alice.ID, "Work", models.ColorBlue)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := app.CreateEvent(ctx, alice.ID, cal.ID, EventDraft{
			Title:     "ev",
			StartTime: at(t, 9+i, 0),
			EndTime:   at(t, 10+i, 0),
		})
		require.NoError(t, err)
	}

	// First attempt dies mid-cascade; the calendar must survive.
	flaky.failDeletes = 2
	err = app.DeleteCalendar(ctx, alice.ID, cal.ID)
	require.Error(t, err)
	assert.Equal(t, KindStore, KindOf(err))
	survivor, err := app.Store().GetCalendar(ctx, cal.ID)
	require.NoError(t, err)
	require.NotNil(t, survivor)

	// Retrying completes the cascade.
	require.NoError(t, app.DeleteCalendar(ctx, alice.ID, cal.ID))
	gone, err := app.Store().GetCalendar(ctx, cal.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	events, err := app.Store().ListEvents(ctx, cal.ID)
	require.NoError(t, err)
	assert.Empty(t, events)

	// Deleting again reports not found.
	err = app.DeleteCalendar(ctx, alice.ID, cal.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestDeleteCalendarProtections(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bobby")

	def := &models.Calendar{
		ID:        models.NewCalendarID(),
		Name:      "My Calendar",
		OwnerID:   alice.ID,
		IsDefault: true,
		Members:   []models.UserID{alice.ID},
		Color:     models.ColorBlue,
	}
	require.NoError(t, s.CreateCalendar(ctx, def))

	err := app.DeleteCalendar(ctx, alice.ID, def.ID)
	assert.Equal(t, KindDefaultProtected, KindOf(err))

	cal, err := app.CreatePersonalCalendar(ctx, alice.ID, "Work", models.ColorBlue)
	require.NoError(t, err)
	err = app.DeleteCalendar(ctx, bob.ID, cal.ID)
	assert.Equal(t, KindForbidden, KindOf(err))
}
