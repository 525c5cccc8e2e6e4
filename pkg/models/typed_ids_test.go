package models

import (
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDJSONRoundTrip(t *testing.T) {
	id := NewCalendarID()

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.JSONEq(t, `"`+id.String()+`"`, string(data))

	var back CalendarID
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, id, back)
}

func TestParseIDRejectsGarbage(t *testing.T) {
	_, err := ParseUserID("not-a-uuid")
	assert.Error(t, err)
	_, err = ParseCalendarID("")
	assert.Error(t, err)
	_, err = ParseEventID("123")
	assert.Error(t, err)

	id, err := ParseUserID(NewUserID().String())
	require.NoError(t, err)
	assert.False(t, id.IsZero())
}

func TestIDRecordIDTables(t *testing.T) {
	assert.Equal(t, "users", NewUserID().RecordID().Table)
	assert.Equal(t, "calendars", NewCalendarID().RecordID().Table)
	assert.Equal(t, "events", NewEventID().RecordID().Table)
}

func TestIDCBORRoundTrip(t *testing.T) {
	id := NewEventID()

	data, err := cbor.Marshal(id)
	require.NoError(t, err)

	var back EventID
	require.NoError(t, cbor.Unmarshal(data, &back))
	assert.Equal(t, id, back)

	// A user RecordID must not decode into an EventID.
	userData, err := cbor.Marshal(NewUserID())
	require.NoError(t, err)
	assert.Error(t, cbor.Unmarshal(userData, &back))
}

func TestColorValid(t *testing.T) {
	for _, c := range []Color{ColorBlue, ColorPink, ColorGreen, ColorYellow, ColorRed, ColorPurple, ColorOrange} {
		assert.True(t, c.Valid())
	}
	assert.False(t, Color("magenta").Valid())
	assert.False(t, Color("").Valid())
}
