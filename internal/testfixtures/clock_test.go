package testfixtures

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	t.Parallel()

	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("zero start should use reference time, got %s", clock.Now())
	}

	if got := clock.Advance(90 * time.Minute); !got.Equal(ReferenceTime().Add(90 * time.Minute)) {
		t.Fatalf("Advance returned %s", got)
	}

	if err := clock.SetClock("21:15"); err != nil {
		t.Fatalf("SetClock error = %v", err)
	}
	want := time.Date(2026, time.March, 1, 21, 15, 0, 0, time.UTC)
	if got := clock.NowFunc()(); !got.Equal(want) {
		t.Fatalf("NowFunc() = %s, want %s", got, want)
	}
	if err := clock.SetClock("late"); err == nil {
		t.Fatal("expected parse error")
	}

	var nilClock *Clock
	if nilClock.NowFunc() == nil {
		t.Fatal("nil clock must still provide a time source")
	}
}

func TestIDGenerator(t *testing.T) {
	t.Parallel()

	gen := NewIDGenerator("")
	next := gen.NextFunc()
	if got := next(); got != "id-1" {
		t.Fatalf("first id = %q", got)
	}
	if got := gen.Next(); got != "id-2" {
		t.Fatalf("second id = %q", got)
	}
	if gen.Issued() != 2 {
		t.Fatalf("Issued() = %d", gen.Issued())
	}

	var nilGen *IDGenerator
	if got := nilGen.NextFunc()(); got != "" {
		t.Fatalf("nil generator id = %q", got)
	}
}
