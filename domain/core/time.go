package core

import (
	"time"
)

// Timestamp represents a point in time, serialized as RFC 3339 in UTC
type Timestamp time.Time

// NewTimestamp creates a new timestamp from time.Time
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

// Now returns the current timestamp
func Now() Timestamp {
	return Timestamp(time.Now())
}

// Time returns the underlying time.Time
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero checks if the timestamp is zero
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// String formats the timestamp as RFC 3339 in UTC
func (t Timestamp) String() string {
	return time.Time(t).UTC().Format(time.RFC3339)
}

// MarshalText implements encoding.TextMarshaler for JSON and YAML output
func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}
