// Package surrealdb implements the store interface on SurrealDB.
//
// The implementation talks native SurrealQL over WebSocket with the
// surrealcbor codec. The codec matters: SurrealDB stores data as CBOR, and the
// default Go marshaling produces datetime and RecordID encodings the server
// rejects. With surrealcbor configured, the typed IDs in pkg/models marshal
// straight to RecordIDs (CBOR tag 8) and time.Time to SurrealDB datetimes, so
// the domain structs are stored as-is with no translation layer.
//
// Queries are always parameterized ($param syntax). Never build SurrealQL by
// string interpolation with caller-provided values.
//
// Cross-document guarantees: none. Each call is a single RPC; the service
// layer owns every multi-document invariant.
package surrealdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/sarveshmina/calendify/pkg/models"
	"github.com/sarveshmina/calendify/pkg/store"
)

// Store implements store.Store on a SurrealDB connection.
type Store struct {
	db       *surrealdb.DB
	ns       string
	database string
}

var _ store.Store = (*Store)(nil)

// New connects to SurrealDB at wsURL and selects the given namespace and
// database. Credentials are optional; when both are empty no SignIn is
// attempted (embedded or unauthenticated servers).
func New(wsURL, namespace, database, username, password string) (*Store, error) {
	ctx := context.Background()

	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	conf := connection.NewConfig(u)

	// surrealcbor handles time.Time and RecordID encoding; the default codec
	// does not.
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	conn := gorillaws.New(conf)

	db, err := surrealdb.FromConnection(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if username != "" && password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": username,
			"pass": password,
		}); err != nil {
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, namespace, database); err != nil {
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &Store{db: db, ns: namespace, database: database}, nil
}

// Migrate is a no-op: SurrealDB creates tables when data is first inserted.
func (s *Store) Migrate(ctx context.Context) error { return nil }

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close(context.Background())
}

// handleNotFound maps the driver's "no result" errors onto the store
// convention of returning (nil, nil) for missing documents.
func handleNotFound(err error) error {
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "Expected a single or multiple results but got 0") ||
			strings.Contains(errStr, "cannot unmarshal array into Go value") {
			return nil
		}
	}
	return err
}

// User operations

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	if _, err := surrealdb.Create[models.User](ctx, s.db, "users", user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	user, err := surrealdb.Select[models.User](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := "SELECT * FROM users WHERE username = $username LIMIT 1"
	params := map[string]any{"username": username}

	result, err := surrealdb.Query[[]models.User](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query user by username: %w", err)
	}
	if result == nil || len(*result) == 0 || len((*result)[0].Result) == 0 {
		return nil, nil
	}
	user := (*result)[0].Result[0]
	return &user, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	if _, err := surrealdb.Update[models.User](ctx, s.db, user.ID.RecordID(), user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// Calendar operations

func (s *Store) CreateCalendar(ctx context.Context, cal *models.Calendar) error {
	if cal.ID.IsZero() {
		cal.ID = models.NewCalendarID()
	}
	if _, err := surrealdb.Create[models.Calendar](ctx, s.db, "calendars", cal); err != nil {
		return fmt.Errorf("failed to create calendar: %w", err)
	}
	return nil
}

func (s *Store) GetCalendar(ctx context.Context, id models.CalendarID) (*models.Calendar, error) {
	cal, err := surrealdb.Select[models.Calendar](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}
	return cal, nil
}

func (s *Store) UpdateCalendar(ctx context.Context, cal *models.Calendar) error {
	if _, err := surrealdb.Update[models.Calendar](ctx, s.db, cal.ID.RecordID(), cal); err != nil {
		return fmt.Errorf("failed to update calendar: %w", err)
	}
	return nil
}

func (s *Store) DeleteCalendar(ctx context.Context, id models.CalendarID) error {
	if _, err := surrealdb.Delete[models.Calendar](ctx, s.db, id.RecordID()); err != nil {
		return fmt.Errorf("failed to delete calendar: %w", err)
	}
	return nil
}

func (s *Store) ListCalendarsByMember(ctx context.Context, userID models.UserID) ([]*models.Calendar, error) {
	// Membership lives in the calendar document itself; CONTAINS matches the
	// RecordID inside the members array.
	query := "SELECT * FROM calendars WHERE members CONTAINS $user ORDER BY created_at ASC"
	params := map[string]any{"user": userID.RecordID()}

	result, err := surrealdb.Query[[]models.Calendar](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	out := []*models.Calendar{}
	if result != nil && len(*result) > 0 {
		for i := range (*result)[0].Result {
			out = append(out, &(*result)[0].Result[i])
		}
	}
	return out, nil
}

// Event operations

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID.IsZero() {
		event.ID = models.NewEventID()
	}
	if _, err := surrealdb.Create[models.Event](ctx, s.db, "events", event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id models.EventID) (*models.Event, error) {
	event, err := surrealdb.Select[models.Event](ctx, s.db, id.RecordID())
	if err != nil {
		if handleNotFound(err) == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *Store) UpdateEvent(ctx context.Context, event *models.Event) error {
	if _, err := surrealdb.Update[models.Event](ctx, s.db, event.ID.RecordID(), event); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id models.EventID) error {
	if _, err := surrealdb.Delete[models.Event](ctx, s.db, id.RecordID()); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (s *Store) ListEvents(ctx context.Context, calendarID models.CalendarID) ([]*models.Event, error) {
	query := "SELECT * FROM events WHERE calendar_id = $calendar ORDER BY start_time ASC"
	params := map[string]any{"calendar": calendarID.RecordID()}

	result, err := surrealdb.Query[[]models.Event](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	out := []*models.Event{}
	if result != nil && len(*result) > 0 {
		for i := range (*result)[0].Result {
			out = append(out, &(*result)[0].Result[i])
		}
	}
	return out, nil
}
