package models

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the zone-less layout the backend uses for dates.
const TimestampLayout = "2006-01-02T15:04:05"

var timestampLayouts = []string{
	time.RFC3339Nano,
	TimestampLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is an instant exchanged as a zone-less wall clock in time.Local.
// Parsing and formatting both go through time.Local, so an input offset
// shifts the wall clock but never the instant.
type Timestamp struct {
	time.Time
}

// NewTimestamp returns nil for the zero time so optional dates serialize as null.
func NewTimestamp(t time.Time) *Timestamp {
	if t.IsZero() {
		return nil
	}
	return &Timestamp{Time: t}
}

// ParseTimestamp accepts RFC 3339, the backend layout, or a bare date and
// returns the instant in time.Local.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.In(time.Local), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Time.In(time.Local).Format(TimestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	parsed, err := ParseTimestamp(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Value returns the zero time for a nil timestamp.
func (t *Timestamp) Value() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.Time
}
