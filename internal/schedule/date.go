package schedule

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format for calendar dates at the persistence and API
// boundaries.
const Layout = "2006-01-02"

// DefaultRevisitFrequencyDays is the form default when the user does not
// pick a frequency.
const DefaultRevisitFrequencyDays = 14

// Date is a calendar date with no time-of-day component. All arithmetic and
// comparisons happen at day granularity in UTC.
type Date struct {
	t time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date, discarding time-of-day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// ParseDate parses a YYYY-MM-DD string. Inputs carrying a time component
// (RFC 3339 timestamps from older clients) are accepted and truncated.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(Layout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("invalid calendar date %q", s)
}

// AddDays returns the date advanced by n calendar days. Month, year and
// leap-year rollover follow Gregorian rules; n may be zero or negative.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// NextVisit computes the revisit date from a first-attempt date and a
// revisit frequency in days. Every revisit date in the system comes from
// this one formula.
func NextVisit(firstAttempt Date, frequencyDays int) Date {
	return firstAttempt.AddDays(frequencyDays)
}

func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Time exposes the date as a UTC-midnight instant for SQL DATE parameters.
func (d Date) Time() time.Time {
	return d.t
}

func (d Date) String() string {
	return d.t.Format(Layout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner so pgx can read DATE columns directly.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into schedule.Date", src)
	}
}

// Value implements driver.Valuer for DATE parameters.
func (d Date) Value() (driver.Value, error) {
	return d.t, nil
}
