// Package memory provides an in-memory implementation of the store interface.
//
// It exists for tests and single-process development. Documents are kept as
// value copies behind a single RWMutex, so callers never observe each other's
// in-flight mutations through shared pointers. Like the real document store it
// has no multi-document transactions: each call is atomic, sequences of calls
// are not.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sarveshmina/calendify/pkg/models"
	"github.com/sarveshmina/calendify/pkg/store"
)

// Store is an in-memory store.Store backed by maps.
type Store struct {
	mu        sync.RWMutex
	users     map[models.UserID]models.User
	calendars map[models.CalendarID]models.Calendar
	events    map[models.EventID]models.Event
	// seq assigns a creation sequence to calendars so listing order is
	// deterministic even when CreatedAt timestamps collide.
	seq    uint64
	calSeq map[models.CalendarID]uint64
}

var _ store.Store = (*Store)(nil)

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		users:     make(map[models.UserID]models.User),
		calendars: make(map[models.CalendarID]models.Calendar),
		events:    make(map[models.EventID]models.Event),
		calSeq:    make(map[models.CalendarID]uint64),
	}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = models.NewUserID()
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *Store) GetUser(ctx context.Context, id models.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	out := copyUser(&u)
	return &out, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			out := copyUser(&u)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *Store) CreateCalendar(ctx context.Context, cal *models.Calendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cal.ID.IsZero() {
		cal.ID = models.NewCalendarID()
	}
	s.calendars[cal.ID] = copyCalendar(cal)
	s.seq++
	s.calSeq[cal.ID] = s.seq
	return nil
}

func (s *Store) GetCalendar(ctx context.Context, id models.CalendarID) (*models.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.calendars[id]
	if !ok {
		return nil, nil
	}
	out := copyCalendar(&c)
	return &out, nil
}

func (s *Store) UpdateCalendar(ctx context.Context, cal *models.Calendar) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendars[cal.ID] = copyCalendar(cal)
	return nil
}

func (s *Store) DeleteCalendar(ctx context.Context, id models.CalendarID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.calendars, id)
	delete(s.calSeq, id)
	return nil
}

func (s *Store) ListCalendarsByMember(ctx context.Context, userID models.UserID) ([]*models.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Calendar{}
	for _, c := range s.calendars {
		if (&c).HasMember(userID) {
			cc := copyCalendar(&c)
			out = append(out, &cc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := s.calSeq[out[i].ID], s.calSeq[out[j].ID]
		if si != sj {
			return si < sj
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = models.NewEventID()
	}
	s.events[event.ID] = *event
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id models.EventID) (*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	out := e
	return &out, nil
}

func (s *Store) UpdateEvent(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ID] = *event
	return nil
}

func (s *Store) DeleteEvent(ctx context.Context, id models.EventID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
	return nil
}

func (s *Store) ListEvents(ctx context.Context, calendarID models.CalendarID) ([]*models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Event{}
	for _, e := range s.events {
		if e.CalendarID == calendarID {
			ee := e
			out = append(out, &ee)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].StartTime.Before(out[j].StartTime)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *Store) Migrate(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func copyUser(u *models.User) models.User {
	out := *u
	out.CalendarIDs = append([]models.CalendarID(nil), u.CalendarIDs...)
	return out
}

func copyCalendar(c *models.Calendar) models.Calendar {
	out := *c
	out.Members = append([]models.UserID(nil), c.Members...)
	return out
}
