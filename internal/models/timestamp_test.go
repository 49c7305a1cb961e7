package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-03-01T09:30:00Z", time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)},
		{"2025-03-01T09:30:00", time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)},
		{"2025-03-01T09:30", time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)},
		{"2025-03-01 09:30:00", time.Date(2025, 3, 1, 9, 30, 0, 0, time.Local)},
		{" 2025-03-01 ", time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseTimestamp("next tuesday")
	assert.Error(t, err)
}

func TestTimestamp_JSON(t *testing.T) {
	var form struct {
		Start *Timestamp `json:"startDate"`
		End   *Timestamp `json:"endDate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"startDate":"2025-03-01","endDate":null}`), &form))

	require.NotNil(t, form.Start)
	assert.Nil(t, form.End)
	assert.True(t, form.End.Value().IsZero())

	out, err := json.Marshal(form.Start)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-01T00:00:00"`, string(out))

	assert.Nil(t, NewTimestamp(time.Time{}))
}

func TestTimestamp_NormalisesToLocal(t *testing.T) {
	saved := time.Local
	time.Local = time.FixedZone("KST", 9*60*60)
	t.Cleanup(func() { time.Local = saved })

	parsed, err := ParseTimestamp("2025-03-01T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Local, parsed.Location())
	assert.Equal(t, 9, parsed.Hour())

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"utc instant", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), `"2025-03-01T09:00:00"`},
		{"negative offset", time.Date(2025, 3, 1, 20, 0, 0, 0, time.FixedZone("", -3*60*60)), `"2025-03-02T08:00:00"`},
		{"already local", time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local), `"2025-03-01T09:00:00"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(NewTimestamp(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))

			var back Timestamp
			require.NoError(t, json.Unmarshal(out, &back))
			assert.True(t, tt.in.Equal(back.Time), "got %s", back.Time)
		})
	}
}
