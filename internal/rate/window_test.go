package rate

import (
	"testing"
	"time"
)

func TestParseUnit(t *testing.T) {
	for _, s := range []string{"second", "minute", "hour", "day", "week"} {
		if _, err := ParseUnit(s); err != nil {
			t.Fatalf("ParseUnit(%q) failed: %v", s, err)
		}
	}

	if _, err := ParseUnit("fortnight"); err == nil {
		t.Fatal("expected error for unknown unit")
	}
}

func TestUnitSeconds(t *testing.T) {
	cases := map[Unit]int64{
		UnitSecond: 1,
		UnitMinute: 60,
		UnitHour:   3600,
		UnitDay:    86400,
		UnitWeek:   604800,
	}
	for unit, want := range cases {
		if got := unit.Seconds(); got != want {
			t.Fatalf("%s.Seconds() = %d, want %d", unit, got, want)
		}
	}
}

func TestRateString(t *testing.T) {
	r := Rate{Count: 60, Unit: UnitMinute}
	if got := r.String(); got != "60 per minute" {
		t.Fatalf("String() = %q", got)
	}
}

func TestCurrentWindowStart(t *testing.T) {
	now := time.Date(2023, 3, 15, 13, 32, 45, 123456789, time.UTC) // Wednesday

	cases := []struct {
		unit Unit
		want time.Time
	}{
		{UnitSecond, time.Date(2023, 3, 15, 13, 32, 45, 0, time.UTC)},
		{UnitMinute, time.Date(2023, 3, 15, 13, 32, 0, 0, time.UTC)},
		{UnitHour, time.Date(2023, 3, 15, 13, 0, 0, 0, time.UTC)},
		{UnitDay, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)},
		{UnitWeek, time.Date(2023, 3, 13, 0, 0, 0, 0, time.UTC)}, // Monday
	}

	for _, tc := range cases {
		r := Rate{Count: 1, Unit: tc.unit}
		if got := r.CurrentWindowStart(now); !got.Equal(tc.want) {
			t.Fatalf("%s window start = %v, want %v", tc.unit, got, tc.want)
		}
	}
}

func TestWindowNeighbors(t *testing.T) {
	r := Rate{Count: 60, Unit: UnitMinute}
	now := time.Date(2023, 3, 15, 13, 32, 45, 0, time.UTC)
	current := r.CurrentWindowStart(now)

	if got := r.PreviousWindowStart(now); !got.Equal(current.Add(-time.Minute)) {
		t.Fatalf("previous window start = %v", got)
	}
	if got := r.NextWindowStart(now); !got.Equal(current.Add(time.Minute)) {
		t.Fatalf("next window start = %v", got)
	}
	if got := r.Expiration(now); got != 15*time.Second {
		t.Fatalf("expiration = %v, want 15s", got)
	}
}

func TestCounterTTLSpansTwoWindows(t *testing.T) {
	r := Rate{Count: 60, Unit: UnitMinute}
	now := time.Date(2023, 3, 15, 13, 32, 45, 0, time.UTC)

	ttl := r.CounterTTL(now)
	if want := 75 * time.Second; ttl != want {
		t.Fatalf("counter ttl = %v, want %v", ttl, want)
	}

	// The counter must still be readable one full window after the write,
	// when it serves as "previous" for the next window.
	if ttl <= r.Window() {
		t.Fatalf("counter ttl %v does not outlive its window %v", ttl, r.Window())
	}
}

func TestElapsedFraction(t *testing.T) {
	r := Rate{Count: 60, Unit: UnitMinute}

	start := time.Date(2023, 3, 15, 13, 32, 0, 0, time.UTC)
	if got := r.ElapsedFraction(start); got != 0 {
		t.Fatalf("elapsed fraction at window start = %v, want 0", got)
	}

	half := start.Add(30 * time.Second)
	if got := r.ElapsedFraction(half); got != 0.5 {
		t.Fatalf("elapsed fraction at half window = %v, want 0.5", got)
	}
}
