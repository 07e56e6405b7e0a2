// Package calendar holds the booking admission rules of the court calendar:
// the weekly grid, the 15 minute slot sequence, closed-day classification and
// the half-open overlap check. Everything here is pure; callers load the
// bookings and holidays and pass them in.
package calendar

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wall-clock date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// Clock is a wall-clock time of day expressed in minutes after midnight.
type Clock int

const (
	// SlotLength is the length of one grid slot in minutes.
	SlotLength = 15
	// OpeningTime is the first slot of the day.
	OpeningTime Clock = 9 * 60
	// ClosingTime is the last slot boundary of the day. No booking ends later.
	ClosingTime Clock = 16 * 60
)

// ParseClock parses "HH:MM" (a trailing ":SS" is tolerated and must be zero).
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("calendar: invalid time %q", s)
	}
	h, ok := clockField(parts[0])
	if !ok || h > 23 {
		return 0, fmt.Errorf("calendar: invalid hour in %q", s)
	}
	m, ok := clockField(parts[1])
	if !ok || m > 59 {
		return 0, fmt.Errorf("calendar: invalid minute in %q", s)
	}
	if len(parts) == 3 {
		if sec, ok := clockField(parts[2]); !ok || sec != 0 {
			return 0, fmt.Errorf("calendar: seconds not supported in %q", s)
		}
	}
	return Clock(h*60 + m), nil
}

// clockField parses one or two ASCII digits. Signs and spaces are rejected.
func clockField(p string) (int, bool) {
	if len(p) == 0 || len(p) > 2 {
		return 0, false
	}
	for i := 0; i < len(p); i++ {
		if p[i] < '0' || p[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(p)
	return n, err == nil
}

// MustClock is ParseClock for constants and tests.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// MarshalText renders the clock as "HH:MM".
func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts "HH:MM".
func (c *Clock) UnmarshalText(b []byte) error {
	v, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Value stores the clock as "HH:MM" text.
func (c Clock) Value() (driver.Value, error) {
	return c.String(), nil
}

// Scan reads a clock stored as text. Drivers that return TIME columns as
// time.Time are accepted as well.
func (c *Clock) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return c.UnmarshalText([]byte(v))
	case []byte:
		return c.UnmarshalText(v)
	case time.Time:
		*c = Clock(v.Hour()*60 + v.Minute())
		return nil
	case nil:
		return fmt.Errorf("calendar: cannot scan NULL into Clock")
	}
	return fmt.Errorf("calendar: cannot scan %T into Clock", src)
}

// ParseDate parses a "YYYY-MM-DD" date into midnight UTC. A timestamp is cut
// to its date part when the date is followed by 'T' or a space.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		if sep := s[len(DateLayout)]; sep != 'T' && sep != ' ' {
			return time.Time{}, fmt.Errorf("calendar: invalid date %q", s)
		}
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("calendar: invalid date %q", s)
	}
	return t, nil
}

// FormatDate renders the wall-clock date part of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Day truncates t to its wall-clock date at midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
