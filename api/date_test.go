package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-03-01":                time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"2024-03-01 08:30:00":       time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
		"2024-03-01T08:30:00":       time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
		"2024-03-01T08:30:00Z":      time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
		"2024-03-01T10:30:00+02:00": time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
		"2024-03-01T08:30:00.250Z":  time.Date(2024, 3, 1, 8, 30, 0, 250e6, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	for _, bad := range []string{"", "yesterday", "01/03/2024", "2024-13-01"} {
		_, err := ParseDate(bad)
		var de *DateError
		assert.ErrorAs(t, err, &de, bad)
	}
}

func TestDate_AbsentNullValue(t *testing.T) {
	var body struct {
		Deadline Date `json:"deadline"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.False(t, body.Deadline.Present)
	assert.Nil(t, body.Deadline.Ptr())

	require.NoError(t, json.Unmarshal([]byte(`{"deadline":null}`), &body))
	assert.True(t, body.Deadline.Present)
	assert.True(t, body.Deadline.Null)
	assert.Nil(t, body.Deadline.Ptr())

	body.Deadline = Date{}
	require.NoError(t, json.Unmarshal([]byte(`{"deadline":"2024-12-31"}`), &body))
	require.NotNil(t, body.Deadline.Ptr())
	assert.Equal(t, 31, body.Deadline.Ptr().Day())

	err := json.Unmarshal([]byte(`{"deadline":42}`), &body)
	var de *DateError
	assert.ErrorAs(t, err, &de)
}
