package calendify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sarveshmina/calendify/pkg/models"
)

// Conflict describes one existing event that overlaps a proposed interval.
type Conflict struct {
	MemberID       models.UserID  `json:"member_id"`
	MemberUsername string         `json:"member_username"`
	EventID        models.EventID `json:"event_id"`
	EventTitle     string         `json:"event_title"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
}

// overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Back-to-back events (e1 == s2) do not overlap.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	maxStart := s1
	if s2.After(maxStart) {
		maxStart = s2
	}
	minEnd := e1
	if e2.Before(minEnd) {
		minEnd = e2
	}
	return maxStart.Before(minEnd)
}

// CheckAvailability scans every calendar of every listed member for events
// overlapping [start, end) and returns the complete conflict list. exclude,
// when non-zero, names an event skipped from the scan so that rescheduling an
// event does not collide with itself.
//
// Conflicts come back in member order, then event start order within each
// member (ties broken by event ID), so repeated scans over unchanged data
// produce identical lists even when a member's events span several calendars.
// Events without both times set are skipped rather than treated as
// all-blocking. The scan reads live documents with no snapshot, so an event
// committed between this scan and the caller's write is not seen; see the
// package doc for the locking that narrows (but cannot close) that window.
func (a *App) CheckAvailability(ctx context.Context, members []models.UserID, start, end time.Time, exclude models.EventID) ([]Conflict, error) {
	if !start.Before(end) {
		return nil, validation("start time must be before end time")
	}

	conflicts := []Conflict{}
	for _, memberID := range members {
		member, err := a.store.GetUser(ctx, memberID)
		if err != nil {
			return nil, storeErr(err, "failed to load member %s", memberID)
		}
		username := ""
		if member != nil {
			username = member.Username
		}

		cals, err := a.store.ListCalendarsByMember(ctx, memberID)
		if err != nil {
			return nil, storeErr(err, "failed to list calendars of member %s", memberID)
		}
		memberConflicts := []Conflict{}
		for _, cal := range cals {
			events, err := a.store.ListEvents(ctx, cal.ID)
			if err != nil {
				return nil, storeErr(err, "failed to list events of calendar %s", cal.ID)
			}
			for _, ev := range events {
				if !exclude.IsZero() && ev.ID == exclude {
					continue
				}
				if ev.StartTime.IsZero() || ev.EndTime.IsZero() {
					continue
				}
				if overlaps(start, end, ev.StartTime, ev.EndTime) {
					memberConflicts = append(memberConflicts, Conflict{
						MemberID:       memberID,
						MemberUsername: username,
						EventID:        ev.ID,
						EventTitle:     ev.Title,
						StartTime:      ev.StartTime,
						EndTime:        ev.EndTime,
					})
				}
			}
		}
		// Each calendar's list arrives start-ordered, but a member's events
		// can interleave across calendars; merge them into one start order.
		sort.Slice(memberConflicts, func(i, j int) bool {
			if !memberConflicts[i].StartTime.Equal(memberConflicts[j].StartTime) {
				return memberConflicts[i].StartTime.Before(memberConflicts[j].StartTime)
			}
			return memberConflicts[i].EventID.String() < memberConflicts[j].EventID.String()
		})
		conflicts = append(conflicts, memberConflicts...)
	}
	return conflicts, nil
}

// schedulingConflict builds the KindSchedulingConflict error for a non-empty
// conflict list, with a human-readable summary naming each busy member.
func schedulingConflict(conflicts []Conflict) *Error {
	var b strings.Builder
	b.WriteString("scheduling conflict:")
	for _, c := range conflicts {
		who := c.MemberUsername
		if who == "" {
			who = c.MemberID.String()
		}
		fmt.Fprintf(&b, " %s is busy with %q from %s to %s;",
			who, c.EventTitle,
			c.StartTime.Format(time.RFC3339), c.EndTime.Format(time.RFC3339))
	}
	return &Error{
		Kind:      KindSchedulingConflict,
		Message:   strings.TrimSuffix(b.String(), ";"),
		Conflicts: conflicts,
	}
}
