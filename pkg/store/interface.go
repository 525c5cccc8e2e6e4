// Package store provides the persistence abstraction for the Calendify backend.
//
// The [Store] interface is the entity-store boundary of the system: per-entity
// get/put/delete by typed ID plus a small set of attribute queries over the
// three collections (users, calendars, events). Implementations:
//
//   - [github.com/sarveshmina/calendify/pkg/store/surrealdb.Store]: SurrealDB
//     over WebSocket with the surrealcbor codec and parameterized SurrealQL
//   - [github.com/sarveshmina/calendify/pkg/store/memory.Store]: an in-memory
//     map store used by tests and single-process development
//
// # Conventions
//
// Get methods return (nil, nil) for a missing document, never a typed
// not-found error; the service layer decides what absence means. Update
// methods replace the whole document. List methods return empty slices for no
// results and a deterministic order: calendars by creation time, events by
// start time (ties broken by ID). The availability scanner depends on that
// ordering to produce stable conflict lists.
//
// # No transactions
//
// The store offers no multi-document transactions and no locks. Every
// read-modify-write sequence in the service layer is unprotected at this
// level; see the concurrency notes in pkg/calendify.
package store

import (
	"context"

	"github.com/sarveshmina/calendify/pkg/models"
)

// Store is the persistence interface of the application.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id models.UserID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error

	// Calendar operations
	CreateCalendar(ctx context.Context, cal *models.Calendar) error
	GetCalendar(ctx context.Context, id models.CalendarID) (*models.Calendar, error)
	UpdateCalendar(ctx context.Context, cal *models.Calendar) error
	DeleteCalendar(ctx context.Context, id models.CalendarID) error
	// ListCalendarsByMember returns every calendar whose member list contains
	// the user, ordered by creation time then ID.
	ListCalendarsByMember(ctx context.Context, userID models.UserID) ([]*models.Calendar, error)

	// Event operations
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id models.EventID) (*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id models.EventID) error
	// ListEvents returns every event of the calendar, ordered by start time
	// then ID.
	ListEvents(ctx context.Context, calendarID models.CalendarID) ([]*models.Event, error)

	// Migrate initializes whatever schema the backend needs. SurrealDB creates
	// tables on first insert, so its implementation is a no-op.
	Migrate(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
