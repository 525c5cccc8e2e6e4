package models

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	surrealdb_models "github.com/surrealdb/surrealdb.go/pkg/models"
)

// UserID is a typed ID for users
type UserID struct {
	uuid uuid.UUID
}

func NewUserID() UserID {
	return UserID{uuid: uuid.New()}
}

func NewUserIDFromUUID(id uuid.UUID) UserID {
	return UserID{uuid: id}
}

func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user ID: %w", err)
	}
	return UserID{uuid: id}, nil
}

func (u UserID) UUID() uuid.UUID { return u.uuid }
func (u UserID) String() string  { return u.uuid.String() }
func (u UserID) IsZero() bool    { return u.uuid == uuid.Nil }

func (u UserID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{
		Table: "users",
		ID:    u.uuid.String(),
	}
}

func (u UserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.uuid.String())
}

func (u *UserID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	u.uuid = id
	return nil
}

func (u UserID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{"users", u.uuid.String()},
	})
}

func (u *UserID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "users", &u.uuid)
}

// CalendarID is a typed ID for calendars
type CalendarID struct {
	uuid uuid.UUID
}

func NewCalendarID() CalendarID {
	return CalendarID{uuid: uuid.New()}
}

func NewCalendarIDFromUUID(id uuid.UUID) CalendarID {
	return CalendarID{uuid: id}
}

func ParseCalendarID(s string) (CalendarID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return CalendarID{}, fmt.Errorf("invalid calendar ID: %w", err)
	}
	return CalendarID{uuid: id}, nil
}

func (c CalendarID) UUID() uuid.UUID { return c.uuid }
func (c CalendarID) String() string  { return c.uuid.String() }
func (c CalendarID) IsZero() bool    { return c.uuid == uuid.Nil }

func (c CalendarID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{
		Table: "calendars",
		ID:    c.uuid.String(),
	}
}

func (c CalendarID) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.uuid.String())
}

func (c *CalendarID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	c.uuid = id
	return nil
}

func (c CalendarID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{"calendars", c.uuid.String()},
	})
}

func (c *CalendarID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "calendars", &c.uuid)
}

// EventID is a typed ID for events
type EventID struct {
	uuid uuid.UUID
}

func NewEventID() EventID {
	return EventID{uuid: uuid.New()}
}

func NewEventIDFromUUID(id uuid.UUID) EventID {
	return EventID{uuid: id}
}

func ParseEventID(s string) (EventID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EventID{}, fmt.Errorf("invalid event ID: %w", err)
	}
	return EventID{uuid: id}, nil
}

func (e EventID) UUID() uuid.UUID { return e.uuid }
func (e EventID) String() string  { return e.uuid.String() }
func (e EventID) IsZero() bool    { return e.uuid == uuid.Nil }

func (e EventID) RecordID() surrealdb_models.RecordID {
	return surrealdb_models.RecordID{
		Table: "events",
		ID:    e.uuid.String(),
	}
}

func (e EventID) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.uuid.String())
}

func (e *EventID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	e.uuid = id
	return nil
}

func (e EventID) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(cbor.Tag{
		Number:  8,
		Content: []any{"events", e.uuid.String()},
	})
}

func (e *EventID) UnmarshalCBOR(data []byte) error {
	return unmarshalCBORID(data, "events", &e.uuid)
}

// unmarshalCBORID is a helper for unmarshaling SurrealDB RecordID from CBOR.
// SurrealDB uses CBOR tag 8 to identify RecordID types in its binary protocol.
// The RecordID is encoded as [table_name, id_string] within the tag.
func unmarshalCBORID(data []byte, expectedTable string, target *uuid.UUID) error {
	if len(data) == 0 {
		return fmt.Errorf("empty CBOR data")
	}

	// Check if this is a CBOR tag (major type 6)
	majorType := data[0] >> 5
	if majorType != 6 {
		return fmt.Errorf("expected CBOR tag for RecordID, got major type %d", majorType)
	}

	var tag cbor.Tag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("failed to unmarshal CBOR tag: %w", err)
	}

	// SurrealDB uses tag 8 for RecordID
	if tag.Number != 8 {
		return fmt.Errorf("expected RecordID tag (8), got %d", tag.Number)
	}

	arr, ok := tag.Content.([]any)
	if !ok || len(arr) != 2 {
		return fmt.Errorf("invalid RecordID format: expected [table, id] array")
	}

	table, ok := arr[0].(string)
	if !ok {
		return fmt.Errorf("invalid RecordID format: table name must be string")
	}

	if table != expectedTable {
		return fmt.Errorf("expected table %s, got %s", expectedTable, table)
	}

	idStr, ok := arr[1].(string)
	if !ok {
		return fmt.Errorf("invalid RecordID format: ID must be string")
	}

	parsedUUID, err := uuid.Parse(idStr)
	if err != nil {
		return fmt.Errorf("invalid UUID in RecordID: %w", err)
	}

	*target = parsedUUID
	return nil
}
