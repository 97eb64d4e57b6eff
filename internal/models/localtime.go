package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the wire format for all task timestamps. Values carry no
// offset; they are interpreted in the configured service timezone.
const TimeLayout = "2006-01-02 15:04:05"

// wireLocation is the timezone used to interpret wire timestamps. Defaults to
// the process-local zone; cmd wiring overrides it from configuration so tests
// and deployments are deterministic.
var wireLocation = time.Local

// SetLocation installs the timezone used when parsing wire timestamps.
func SetLocation(loc *time.Location) {
	if loc != nil {
		wireLocation = loc
	}
}

// Location returns the timezone wire timestamps are interpreted in.
func Location() *time.Location {
	return wireLocation
}

// LocalTime is a timestamp serialized as "2006-01-02 15:04:05" without an
// offset, both over HTTP and in the database.
type LocalTime struct {
	time.Time
}

// NewLocalTime wraps t as a LocalTime.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t}
}

// ParseLocalTime parses a wire-format timestamp in the configured timezone.
func ParseLocalTime(s string) (LocalTime, error) {
	t, err := time.ParseInLocation(TimeLayout, s, wireLocation)
	if err != nil {
		return LocalTime{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return LocalTime{Time: t}, nil
}

func (lt LocalTime) String() string {
	return lt.Format(TimeLayout)
}

// MarshalJSON renders the timestamp in wire format, or null when zero.
func (lt LocalTime) MarshalJSON() ([]byte, error) {
	if lt.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + lt.Format(TimeLayout) + `"`), nil
}

// UnmarshalJSON accepts a wire-format string, an empty string, or null.
func (lt *LocalTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		lt.Time = time.Time{}
		return nil
	}
	parsed, err := ParseLocalTime(s)
	if err != nil {
		return err
	}
	lt.Time = parsed.Time
	return nil
}

// Value implements driver.Valuer so gorm can persist the timestamp.
func (lt LocalTime) Value() (driver.Value, error) {
	if lt.IsZero() {
		return nil, nil
	}
	return lt.Time, nil
}

// Scan implements sql.Scanner for values read back from the database.
func (lt *LocalTime) Scan(v any) error {
	switch val := v.(type) {
	case nil:
		lt.Time = time.Time{}
		return nil
	case time.Time:
		lt.Time = val.In(wireLocation)
		return nil
	case []byte:
		return lt.scanString(string(val))
	case string:
		return lt.scanString(val)
	default:
		return fmt.Errorf("unsupported time value %T", v)
	}
}

func (lt *LocalTime) scanString(s string) error {
	if s == "" {
		lt.Time = time.Time{}
		return nil
	}
	// SQLite may hand back either the wire layout or RFC3339.
	if t, err := time.ParseInLocation(TimeLayout, s, wireLocation); err == nil {
		lt.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("scan time %q: %w", s, err)
	}
	lt.Time = t.In(wireLocation)
	return nil
}

// GormDataType tells gorm to store LocalTime in a datetime column.
func (LocalTime) GormDataType() string {
	return "datetime"
}
