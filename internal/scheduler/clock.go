package scheduler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay bounds clock values produced by ParseClock.
const MinutesPerDay = 24 * 60

// DateLayout is the calendar date format used for reservation dates.
const DateLayout = "2006-01-02"

// ErrInvalidClock is returned when a wall-clock string is not in HH:MM form.
var ErrInvalidClock = errors.New("scheduler: invalid clock value")

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(value string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, value)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate validates a "YYYY-MM-DD" reservation date.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// DateAndClock splits an instant into the reservation date and minutes since midnight
// in the instant's own location.
func DateAndClock(t time.Time) (string, int) {
	return t.Format(DateLayout), t.Hour()*60 + t.Minute()
}
