package calendify

import (
	"github.com/sarveshmina/calendify/pkg/models"
)

// Membership and permission rules. Pure functions over already-loaded
// documents; no I/O, so they can be checked (and tested) independent of the
// store.

// IsMember reports whether userID is in cal's member list.
func IsMember(cal *models.Calendar, userID models.UserID) bool {
	return cal.HasMember(userID)
}

// IsOwner reports whether userID owns cal.
func IsOwner(cal *models.Calendar, userID models.UserID) bool {
	return cal.OwnerID == userID
}

// CanMutateGroup returns nil when actor may change cal's membership or
// metadata. Only the owner of a group calendar may.
func CanMutateGroup(cal *models.Calendar, actor models.UserID) error {
	if !cal.IsGroup {
		return validation("calendar %s is not a group calendar", cal.ID)
	}
	if !IsOwner(cal, actor) {
		return forbidden("only the owner may modify group calendar %s", cal.ID)
	}
	return nil
}

// CanAddMember returns nil when one more member fits in cal.
//
// An existing member is its own outcome, distinct from the capacity check:
// App.AddMember short-circuits it into an idempotent no-op before ever asking
// here, so the error below only reaches callers that skipped that check. It
// reuses the validation kind rather than carrying a kind of its own because
// nothing maps it to a different status.
func CanAddMember(cal *models.Calendar, userID models.UserID) error {
	if IsMember(cal, userID) {
		return validation("user %s is already a member of calendar %s", userID, cal.ID)
	}
	if len(cal.Members) >= models.MaxGroupMembers {
		return capacityExceeded("calendar %s already has %d members", cal.ID, models.MaxGroupMembers)
	}
	return nil
}

// CanDeleteCalendar returns nil when actor may delete cal. Default calendars
// are never deletable, everything else requires ownership.
func CanDeleteCalendar(cal *models.Calendar, actor models.UserID) error {
	if cal.IsDefault {
		return defaultProtected("calendar %s is a default calendar and cannot be deleted", cal.ID)
	}
	if !IsOwner(cal, actor) {
		return forbidden("only the owner may delete calendar %s", cal.ID)
	}
	return nil
}
