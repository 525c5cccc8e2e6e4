package calendify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarveshmina/calendify/pkg/models"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	h := func(d time.Duration) time.Time { return base.Add(d) }

	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", h(0), h(time.Hour), h(0), h(time.Hour), true},
		{"partial overlap", h(0), h(time.Hour), h(30 * time.Minute), h(90 * time.Minute), true},
		{"contained", h(0), h(2 * time.Hour), h(30 * time.Minute), h(time.Hour), true},
		{"back to back", h(0), h(time.Hour), h(time.Hour), h(2 * time.Hour), false},
		{"disjoint", h(0), h(time.Hour), h(2 * time.Hour), h(3 * time.Hour), false},
		{"one minute overlap", h(0), h(61 * time.Minute), h(time.Hour), h(2 * time.Hour), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			// Overlap is symmetric in the two intervals.
			assert.Equal(t, tt.want, overlaps(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}

func TestCheckAvailabilityRejectsInvalidInterval(t *testing.T) {
	app, _, _ := newTestApp(t)

	_, err := app.CheckAvailability(context.Background(), nil, at(t, 11, 0), at(t, 10, 0), models.EventID{})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = app.CheckAvailability(context.Background(), nil, at(t, 10, 0), at(t, 10, 0), models.EventID{})
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestCheckAvailabilityScansAllMemberCalendars(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bobby")

	// Bob's busy slot lives on his own personal calendar, not the group one.
	personal, err := app.CreatePersonalCalendar(ctx, bob.ID, "Bob private", models.ColorGreen)
	require.NoError(t, err)
	_, err = app.CreateEvent(ctx, bob.ID, personal.ID, EventDraft{
		Title:     "Dentist",
		StartTime: at(t, 10, 0),
		EndTime:   at(t, 11, 0),
	})
	require.NoError(t, err)

	conflicts, err := app.CheckAvailability(ctx, []models.UserID{alice.ID, bob.ID}, at(t, 10, 30), at(t, 11, 30), models.EventID{})
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, bob.ID, conflicts[0].MemberID)
	assert.Equal(t, "bobby", conflicts[0].MemberUsername)
	assert.Equal(t, "Dentist", conflicts[0].EventTitle)

	// The free slot right after is fine.
	conflicts, err = app.CheckAvailability(ctx, []models.UserID{alice.ID, bob.ID}, at(t, 11, 0), at(t, 12, 0), models.EventID{})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCheckAvailabilityExcludesNamedEvent(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	cal, err := app.CreatePersonalCalendar(ctx, alice.ID, "Work", models.ColorBlue)
	require.NoError(t, err)
	ev, err := app.CreateEvent(ctx, alice.ID, cal.ID, EventDraft{
		Title:     "Standup",
		StartTime: at(t, 9, 0),
		EndTime:   at(t, 9, 30),
	})
	require.NoError(t, err)

	// Without the exclusion the event collides with its own slot.
	conflicts, err := app.CheckAvailability(ctx, []models.UserID{alice.ID}, at(t, 9, 0), at(t, 9, 30), models.EventID{})
	require.NoError(t, err)
	assert.Len(t, conflicts, 1)

	conflicts, err = app.CheckAvailability(ctx, []models.UserID{alice.ID}, at(t, 9, 0), at(t, 9, 30), ev.ID)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCheckAvailabilitySkipsEventsWithoutTimes(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	cal, err := app.CreatePersonalCalendar(ctx, alice.ID, "Work", models.ColorBlue)
	require.NoError(t, err)

	// A malformed document written around the service layer must not act as
	// an all-day blocker.
	require.NoError(t, s.CreateEvent(ctx, &models.Event{
		ID:         models.NewEventID(),
		CalendarID: cal.ID,
		Title:      "broken",
		CreatorID:  alice.ID,
	}))

	conflicts, err := app.CheckAvailability(ctx, []models.UserID{alice.ID}, at(t, 9, 0), at(t, 17, 0), models.EventID{})
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCheckAvailabilityOrderIsStable(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bobby")

	aliceCal, err := app.CreatePersonalCalendar(ctx, alice.ID, "A", models.ColorBlue)
	require.NoError(t, err)
	bobCal, err := app.CreatePersonalCalendar(ctx, bob.ID, "B", models.ColorPink)
	require.NoError(t, err)

	// Created out of start order on purpose.
	_, err = app.CreateEvent(ctx, bob.ID, bobCal.ID, EventDraft{Title: "b2", StartTime: at(t, 14, 0), EndTime: at(t, 15, 0)})
	require.NoError(t, err)
	_, err = app.CreateEvent(ctx, bob.ID, bobCal.ID, EventDraft{Title: "b1", StartTime: at(t, 10, 0), EndTime: at(t, 11, 0)})
	require.NoError(t, err)
	_, err = app.CreateEvent(ctx, alice.ID, aliceCal.ID, EventDraft{Title: "a1", StartTime: at(t, 12, 0), EndTime: at(t, 13, 0)})
	require.NoError(t, err)

	members := []models.UserID{alice.ID, bob.ID}
	first, err := app.CheckAvailability(ctx, members, at(t, 9, 0), at(t, 17, 0), models.EventID{})
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Member order first, then start order within each member.
	assert.Equal(t, []string{"a1", "b1", "b2"}, []string{first[0].EventTitle, first[1].EventTitle, first[2].EventTitle})

	for i := 0; i < 5; i++ {
		again, err := app.CheckAvailability(ctx, members, at(t, 9, 0), at(t, 17, 0), models.EventID{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCheckAvailabilityMergesCalendarsPerMember(t *testing.T) {
	app, s, _ := newTestApp(t)
	ctx := context.Background()

	bob := seedUser(t, s, "bobby")
	work, err := app.CreatePersonalCalendar(ctx, bob.ID, "Work", models.ColorBlue)
	require.NoError(t, err)
	home, err := app.CreatePersonalCalendar(ctx, bob.ID, "Home", models.ColorGreen)
	require.NoError(t, err)

	// Interleaved across the two calendars: the scan must come back in one
	// start order per member, not calendar by calendar.
	_, err = app.CreateEvent(ctx, bob.ID, work.ID, EventDraft{Title: "w1", StartTime: at(t, 9, 0), EndTime: at(t, 10, 0)})
	require.NoError(t, err)
	_, err = app.CreateEvent(ctx, bob.ID, work.ID, EventDraft{Title: "w2", StartTime: at(t, 13, 0), EndTime: at(t, 14, 0)})
	require.NoError(t, err)
	_, err = app.CreateEvent(ctx, bob.ID, home.ID, EventDraft{Title: "h1", StartTime: at(t, 11, 0), EndTime: at(t, 12, 0)})
	require.NoError(t, err)

	conflicts, err := app.CheckAvailability(ctx, []models.UserID{bob.ID}, at(t, 8, 0), at(t, 18, 0), models.EventID{})
	require.NoError(t, err)
	require.Len(t, conflicts, 3)
	assert.Equal(t, []string{"w1", "h1", "w2"}, []string{conflicts[0].EventTitle, conflicts[1].EventTitle, conflicts[2].EventTitle})
}

func TestSchedulingConflictMessageNamesMembers(t *testing.T) {
	err := schedulingConflict([]Conflict{{
		MemberUsername: "bobby",
		EventTitle:     "Dentist",
		StartTime:      time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC),
	}})
	assert.Equal(t, KindSchedulingConflict, err.Kind)
	assert.Contains(t, err.Message, "bobby")
	assert.Contains(t, err.Message, "Dentist")
	assert.Len(t, err.Conflicts, 1)
}
