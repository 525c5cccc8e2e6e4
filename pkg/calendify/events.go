package calendify

import (
	"context"
	"time"

	"github.com/sarveshmina/calendify/pkg/models"
)

// EventDraft is the payload for creating an event.
type EventDraft struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

// EventPatch updates an event's mutable fields. Nil fields stay unchanged.
// CalendarID and CreatorID are not patchable; events do not move between
// calendars or change hands.
type EventPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Locked      *bool      `json:"locked"`
}

func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return validation("start and end times are required")
	}
	if !start.Before(end) {
		return validation("start time must be before end time")
	}
	return nil
}

// CreateEvent creates an event on the calendar. The actor must be a member.
//
// On a group calendar the draft interval is first scanned against every
// member's full schedule; any overlap rejects the creation with the complete
// conflict list. The scan and the write run under the calendar's advisory
// lock so concurrent creations in this process cannot both pass the scan.
// Members other than the creator get a best-effort email afterwards.
func (a *App) CreateEvent(ctx context.Context, actor models.UserID, calID models.CalendarID, draft EventDraft) (*models.Event, error) {
	cal, err := a.loadCalendar(ctx, calID)
	if err != nil {
		return nil, err
	}
	if !IsMember(cal, actor) {
		return nil, notAMember("user %s is not a member of calendar %s", actor, calID)
	}
	if draft.Title == "" {
		return nil, validation("event title is required")
	}
	if err := validateInterval(draft.StartTime, draft.EndTime); err != nil {
		return nil, err
	}

	if cal.IsGroup {
		unlock := a.calLocks.Lock(calID)
		defer unlock()

		conflicts, err := a.CheckAvailability(ctx, cal.Members, draft.StartTime, draft.EndTime, models.EventID{})
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, schedulingConflict(conflicts)
		}
	}

	now := time.Now().UTC()
	event := &models.Event{
		ID:          models.NewEventID(),
		CalendarID:  calID,
		Title:       draft.Title,
		Description: draft.Description,
		StartTime:   draft.StartTime,
		EndTime:     draft.EndTime,
		CreatorID:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.store.CreateEvent(ctx, event); err != nil {
		return nil, storeErr(err, "failed to create event")
	}

	a.notifyEventCreated(ctx, cal, event, actor)
	return event, nil
}

// UpdateEvent applies patch to an event. Creator only.
//
// A locked event rejects every patch except one that unlocks it. When the
// patch changes the interval of an event on a group calendar, the new
// interval is re-scanned with the event itself excluded, so an event never
// conflicts with its own old slot.
func (a *App) UpdateEvent(ctx context.Context, actor models.UserID, eventID models.EventID, patch EventPatch) (*models.Event, error) {
	event, err := a.loadEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatorID != actor {
		return nil, forbidden("only the creator may update event %s", eventID)
	}
	if patch.Title == nil && patch.Description == nil && patch.StartTime == nil && patch.EndTime == nil && patch.Locked == nil {
		return nil, validation("nothing to update")
	}
	if event.Locked && (patch.Locked == nil || *patch.Locked) {
		return nil, validation("event %s is locked; unlock it first", eventID)
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return nil, validation("event title cannot be empty")
		}
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}

	intervalChanged := false
	start, end := event.StartTime, event.EndTime
	if patch.StartTime != nil {
		start = *patch.StartTime
		intervalChanged = true
	}
	if patch.EndTime != nil {
		end = *patch.EndTime
		intervalChanged = true
	}
	if err := validateInterval(start, end); err != nil {
		return nil, err
	}
	event.StartTime, event.EndTime = start, end

	if patch.Locked != nil {
		event.Locked = *patch.Locked
	}
	event.UpdatedAt = time.Now().UTC()

	cal, err := a.loadCalendar(ctx, event.CalendarID)
	if err != nil {
		return nil, err
	}

	if intervalChanged && cal.IsGroup {
		unlock := a.calLocks.Lock(cal.ID)
		defer unlock()

		conflicts, err := a.CheckAvailability(ctx, cal.Members, start, end, event.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, schedulingConflict(conflicts)
		}
	}

	if err := a.store.UpdateEvent(ctx, event); err != nil {
		return nil, storeErr(err, "failed to update event %s", eventID)
	}
	return event, nil
}

// DeleteEvent deletes an event. Creator only.
func (a *App) DeleteEvent(ctx context.Context, actor models.UserID, eventID models.EventID) error {
	event, err := a.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.CreatorID != actor {
		return forbidden("only the creator may delete event %s", eventID)
	}
	if err := a.store.DeleteEvent(ctx, eventID); err != nil {
		return storeErr(err, "failed to delete event %s", eventID)
	}
	return nil
}

// ListCalendarEvents returns the calendar's events in start order. The actor
// must be a member.
func (a *App) ListCalendarEvents(ctx context.Context, actor models.UserID, calID models.CalendarID) ([]*models.Event, error) {
	cal, err := a.loadCalendar(ctx, calID)
	if err != nil {
		return nil, err
	}
	if !IsMember(cal, actor) {
		return nil, notAMember("user %s is not a member of calendar %s", actor, calID)
	}
	events, err := a.store.ListEvents(ctx, calID)
	if err != nil {
		return nil, storeErr(err, "failed to list events of calendar %s", calID)
	}
	return events, nil
}

func (a *App) loadEvent(ctx context.Context, id models.EventID) (*models.Event, error) {
	event, err := a.store.GetEvent(ctx, id)
	if err != nil {
		return nil, storeErr(err, "failed to load event %s", id)
	}
	if event == nil {
		return nil, notFound("event %s not found", id)
	}
	return event, nil
}

// notifyEventCreated emails every member except the creator. Failures are
// logged; the event is already committed.
func (a *App) notifyEventCreated(ctx context.Context, cal *models.Calendar, event *models.Event, creatorID models.UserID) {
	creator, err := a.store.GetUser(ctx, creatorID)
	if err != nil || creator == nil {
		a.logger.Warn().Err(err).Str("user", creatorID.String()).Msg("event notification skipped")
		return
	}
	for _, memberID := range cal.Members {
		if memberID == creatorID {
			continue
		}
		member, err := a.store.GetUser(ctx, memberID)
		if err != nil || member == nil {
			continue
		}
		if err := a.notifier.EventCreated(ctx, member, event, cal, creator); err != nil {
			a.logger.Warn().Err(err).Str("user", member.Username).Str("event", event.Title).Msg("event email failed")
		}
	}
}
