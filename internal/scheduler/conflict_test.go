package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConflicts(t *testing.T) {
	t.Parallel()

	cfg := DefaultTurnTimeConfig
	cases := []struct {
		name    string
		timeA   string
		guestsA int
		timeB   string
		guestsB int
		want    bool
	}{
		{name: "four guests then two after turn", timeA: "19:00", guestsA: 4, timeB: "21:05", guestsB: 2, want: false},
		{name: "four guests then two inside turn", timeA: "19:00", guestsA: 4, timeB: "20:30", guestsB: 2, want: true},
		{name: "touching windows", timeA: "19:00", guestsA: 2, timeB: "20:30", guestsB: 2, want: false},
		{name: "one minute overlap", timeA: "19:00", guestsA: 2, timeB: "20:29", guestsB: 2, want: true},
		{name: "large party earlier blocks later small", timeA: "18:00", guestsA: 8, timeB: "20:00", guestsB: 2, want: true},
		{name: "same start", timeA: "12:00", guestsA: 1, timeB: "12:00", guestsB: 6, want: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := mustClock(t, tc.timeA)
			b := mustClock(t, tc.timeB)
			assert.Equal(t, tc.want, Conflicts(a, tc.guestsA, b, tc.guestsB, cfg))
			assert.Equal(t, tc.want, Conflicts(b, tc.guestsB, a, tc.guestsA, cfg), "conflict check must be symmetric")
		})
	}
}

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	cfg := DefaultTurnTimeConfig
	existing := []Booking{
		{ID: "r1", Date: "2026-03-01", Start: 19 * 60, Guests: 4, Active: true},
		{ID: "r2", Date: "2026-03-01", Start: 19*60 + 30, Guests: 2, Active: false},
		{ID: "r3", Date: "2026-03-02", Start: 19 * 60, Guests: 4, Active: true},
		{ID: "r4", Date: "2026-03-01", Start: 22 * 60, Guests: 2, Active: true},
	}

	t.Run("overlap on same date produces conflict", func(t *testing.T) {
		t.Parallel()
		got := DetectConflicts(existing, Booking{Date: "2026-03-01", Start: 20*60 + 30, Guests: 2, Active: true}, cfg)
		if assert.Len(t, got, 1) {
			assert.Equal(t, "r1", got[0].WithBookingID)
			assert.Equal(t, Window{Start: 19 * 60, End: 21 * 60}, got[0].Window)
		}
	})

	t.Run("inactive bookings are ignored", func(t *testing.T) {
		t.Parallel()
		got := DetectConflicts(existing[1:2], Booking{Date: "2026-03-01", Start: 19*60 + 30, Guests: 2, Active: true}, cfg)
		assert.Empty(t, got)
	})

	t.Run("candidate does not conflict with itself", func(t *testing.T) {
		t.Parallel()
		got := DetectConflicts(existing, Booking{ID: "r1", Date: "2026-03-01", Start: 19 * 60, Guests: 4, Active: true}, cfg)
		assert.Empty(t, got)
	})

	t.Run("non-overlapping bookings yield no conflicts", func(t *testing.T) {
		t.Parallel()
		got := DetectConflicts(existing, Booking{Date: "2026-03-01", Start: 21*60 + 5, Guests: 2, Active: true}, cfg)
		assert.Empty(t, got)
	})
}

func TestDetectConflictsStaysOnDate(t *testing.T) {
	t.Parallel()

	cfg := DefaultTurnTimeConfig
	late := Booking{ID: "late", Date: "2026-03-01", Start: 23 * 60, Guests: 6, Active: true}
	assert.Equal(t, 23*60+ResolveTurnTime(6, cfg), WindowFor(late.Start, late.Guests, cfg).End, "window end is not wrapped")

	early := Booking{ID: "early", Date: "2026-03-02", Start: 30, Guests: 2, Active: true}
	assert.Empty(t, DetectConflicts([]Booking{late}, early, cfg))

	sameDay := Booking{ID: "after", Date: "2026-03-01", Start: 23*60 + 30, Guests: 2, Active: true}
	assert.Len(t, DetectConflicts([]Booking{late}, sameDay, cfg), 1)
}

func TestOverlapsWalkIn(t *testing.T) {
	t.Parallel()

	cfg := DefaultTurnTimeConfig
	start := 20 * 60

	assert.True(t, OverlapsWalkIn(start, 2, start, 0, cfg), "reservation starting now is imminent")
	assert.True(t, OverlapsWalkIn(start, 2, start+89, 0, cfg), "last minute of the window is imminent")
	assert.False(t, OverlapsWalkIn(start, 2, start+90, 0, cfg), "window already elapsed")
	assert.False(t, OverlapsWalkIn(start, 2, start-15, 0, cfg), "future reservation outside lookahead")
	assert.True(t, OverlapsWalkIn(start, 2, start-15, 30, cfg), "future reservation inside lookahead")
	assert.False(t, OverlapsWalkIn(start, 2, start-30, 30, cfg), "lookahead touching the window")
}

func mustClock(t *testing.T, value string) int {
	t.Helper()
	minutes, err := ParseClock(value)
	if err != nil {
		t.Fatalf("ParseClock(%q) error = %v", value, err)
	}
	return minutes
}
