package rate

import (
	"fmt"
	"math"
	"time"
)

// Unit is the fixed-window period a Rate is expressed over.
type Unit string

const (
	UnitSecond Unit = "second"
	UnitMinute Unit = "minute"
	UnitHour   Unit = "hour"
	UnitDay    Unit = "day"
	UnitWeek   Unit = "week"
)

// ParseUnit validates a configured unit string.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitSecond, UnitMinute, UnitHour, UnitDay, UnitWeek:
		return Unit(s), nil
	}
	return "", fmt.Errorf("unknown rate unit %q", s)
}

// Seconds returns the unit length in whole seconds.
func (u Unit) Seconds() int64 {
	switch u {
	case UnitSecond:
		return 1
	case UnitMinute:
		return 60
	case UnitHour:
		return 60 * 60
	case UnitDay:
		return 60 * 60 * 24
	case UnitWeek:
		return 60 * 60 * 24 * 7
	}
	return 0
}

// Duration returns the unit length as a time.Duration.
func (u Unit) Duration() time.Duration {
	return time.Duration(u.Seconds()) * time.Second
}

// Rate is an immutable request budget: Count requests per Unit.
// Constructed once at startup from static configuration.
type Rate struct {
	Count int
	Unit  Unit
}

// String renders the human form used in rejection messages,
// e.g. "60 per minute".
func (r Rate) String() string {
	return fmt.Sprintf("%d per %s", r.Count, r.Unit)
}

// WindowSeconds returns the window length in whole seconds.
func (r Rate) WindowSeconds() int64 {
	return r.Unit.Seconds()
}

// Window returns the window length as a time.Duration.
func (r Rate) Window() time.Duration {
	return r.Unit.Duration()
}

// CurrentWindowStart truncates now to the start of the configured unit,
// in UTC. Weeks start on Monday 00:00 UTC.
func (r Rate) CurrentWindowStart(now time.Time) time.Time {
	now = now.UTC()
	switch r.Unit {
	case UnitSecond:
		return now.Truncate(time.Second)
	case UnitMinute:
		return now.Truncate(time.Minute)
	case UnitHour:
		return now.Truncate(time.Hour)
	case UnitDay:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case UnitWeek:
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	}
	return now
}

// PreviousWindowStart is one window length before CurrentWindowStart.
func (r Rate) PreviousWindowStart(now time.Time) time.Time {
	return r.CurrentWindowStart(now).Add(-r.Window())
}

// NextWindowStart is one window length after CurrentWindowStart.
func (r Rate) NextWindowStart(now time.Time) time.Time {
	return r.CurrentWindowStart(now).Add(r.Window())
}

// Expiration is the time remaining until the current window rolls over.
// Display only; counter TTLs use CounterTTL instead.
func (r Rate) Expiration(now time.Time) time.Duration {
	return r.NextWindowStart(now).Sub(now.UTC())
}

// CounterTTL is the TTL written on a window counter: from now until two
// full window lengths past the current window's start. The counter must
// outlive its own window so it can serve as "previous" after rollover.
func (r Rate) CounterTTL(now time.Time) time.Duration {
	return r.CurrentWindowStart(now).Add(2 * r.Window()).Sub(now.UTC())
}

// ElapsedFraction reports how far into the current window now sits,
// in [0, 1).
func (r Rate) ElapsedFraction(now time.Time) float64 {
	ws := float64(r.WindowSeconds())
	ts := float64(now.UnixNano()) / float64(time.Second)
	return math.Mod(ts, ws) / ws
}
