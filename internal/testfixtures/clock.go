package testfixtures

import (
	"fmt"
	"sync"
	"time"
)

// ServiceDate is the business day fixtures book against.
const ServiceDate = "2026-03-01"

var referenceTime = time.Date(2026, time.March, 1, 18, 0, 0, 0, time.UTC)

// ReferenceTime is the start of the fixture dinner service.
func ReferenceTime() time.Time {
	return referenceTime
}

// Clock is a controllable time source shared by a service and its test.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock starts at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc returns Now for injection; a nil clock falls back to wall time.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// SetClock moves the clock to an HH:MM wall time on the current day, keeping
// the clock's location.
func (c *Clock) SetClock(hhmm string) error {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return fmt.Errorf("parse %q: %w", hhmm, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	y, mo, d := c.current.Date()
	c.current = time.Date(y, mo, d, h, m, 0, 0, c.current.Location())
	return nil
}
