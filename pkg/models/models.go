package models

import (
	"time"
)

// Color is the display color of a calendar. The set of colors is fixed;
// anything outside it is rejected at the service layer.
type Color string

const (
	ColorBlue   Color = "blue"
	ColorPink   Color = "pink"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
)

// Valid reports whether c is one of the allowed calendar colors.
func (c Color) Valid() bool {
	switch c {
	case ColorBlue, ColorPink, ColorGreen, ColorYellow, ColorRed, ColorPurple, ColorOrange:
		return true
	}
	return false
}

// MaxGroupMembers is the membership cap of a group calendar, owner included.
const MaxGroupMembers = 5

// User represents a registered account.
//
// CalendarIDs is a denormalized convenience copy of the calendars the user
// belongs to. Calendar.Members is the authoritative membership record; the
// lifecycle services keep CalendarIDs in step on a best-effort basis because
// the store has no cross-document transactions.
type User struct {
	ID                UserID       `json:"id"`
	Username          string       `json:"username"`
	PasswordHash      string       `json:"-"`
	Email             string       `json:"email,omitempty"`
	CalendarIDs       []CalendarID `json:"calendar_ids"`
	DefaultCalendarID CalendarID   `json:"default_calendar_id"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Calendar represents a personal or group calendar.
//
// Invariants enforced by the lifecycle services:
//   - OwnerID is always present in Members.
//   - A personal calendar's Members is exactly {OwnerID}.
//   - A group calendar holds at most MaxGroupMembers members.
//   - Exactly one calendar per user has IsDefault set, and it is never a group.
//
// Members preserves insertion order. The order is irrelevant for membership
// tests but decides ownership succession: when the owner leaves, the first
// remaining member in Members becomes the new owner.
type Calendar struct {
	ID        CalendarID `json:"id"`
	Name      string     `json:"name"`
	OwnerID   UserID     `json:"owner_id"`
	IsGroup   bool       `json:"is_group"`
	IsDefault bool       `json:"is_default"`
	Members   []UserID   `json:"members"`
	Color     Color      `json:"color"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HasMember reports whether id is in the calendar's member list.
func (c *Calendar) HasMember(id UserID) bool {
	for _, m := range c.Members {
		if m == id {
			return true
		}
	}
	return false
}

// Event represents a single entry on a calendar. Events belong to exactly one
// calendar and are mutated only by their creator, independent of who owns the
// calendar.
type Event struct {
	ID          EventID    `json:"id"`
	CalendarID  CalendarID `json:"calendar_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     time.Time  `json:"end_time"`
	Locked      bool       `json:"locked"`
	CreatorID   UserID     `json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
