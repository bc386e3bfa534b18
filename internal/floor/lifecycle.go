package floor

import (
	"fmt"
	"time"

	"github.com/example/floor-manager/internal/scheduler"
)

// Occupy seats a walk-in party at a free table.
func Occupy(s Snapshot, tableID string, now time.Time) (Snapshot, Table, error) {
	next := s.Clone()
	t, ok := next.Table(tableID)
	if !ok {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	if t.Status != StatusFree {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableOccupied, tableID)
	}
	seat(&t, now)
	next.put(t)
	return next, t, nil
}

// CheckIn marks an upcoming reservation as arrived and seats it at its table.
func CheckIn(s Snapshot, tableID, reservationID string, now time.Time) (Snapshot, Table, error) {
	next := s.Clone()
	t, ok := next.Table(tableID)
	if !ok {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	i := t.reservationIndex(reservationID)
	if i < 0 {
		if _, _, found := s.FindReservation(reservationID); found {
			return s, Table{}, fmt.Errorf("%w: %s", ErrReservationNotOnTable, reservationID)
		}
		return s, Table{}, fmt.Errorf("%w: %s", ErrReservationNotFound, reservationID)
	}
	if !t.Reservations[i].Status.Upcoming() {
		return s, Table{}, fmt.Errorf("%w: check-in from %s", ErrInvalidTransition, t.Reservations[i].Status)
	}
	if _, seated := t.SeatedReservation(); seated {
		return s, Table{}, fmt.Errorf("%w: %s", ErrPartyAlreadySeated, tableID)
	}
	if t.Status != StatusFree {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableOccupied, tableID)
	}
	if HasUnresolvedEarlier(t, reservationID) {
		return s, Table{}, fmt.Errorf("%w: %s", ErrEarlierReservationPending, reservationID)
	}
	t.Reservations[i].Status = ReservationArrived
	t.Reservations[i].UpdatedAt = now
	seat(&t, now)
	next.put(t)
	return next, t, nil
}

// CheckOut completes the seated reservation and frees its table.
func CheckOut(s Snapshot, tableID, reservationID string, now time.Time) (Snapshot, Table, error) {
	next := s.Clone()
	t, ok := next.Table(tableID)
	if !ok {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	i := t.reservationIndex(reservationID)
	if i < 0 {
		return s, Table{}, fmt.Errorf("%w: %s", ErrReservationNotOnTable, reservationID)
	}
	if t.Reservations[i].Status != ReservationArrived {
		return s, Table{}, fmt.Errorf("%w: check-out from %s", ErrInvalidTransition, t.Reservations[i].Status)
	}
	t.Reservations[i].Status = ReservationCompleted
	t.Reservations[i].UpdatedAt = now
	release(&t)
	next.put(t)
	return next, t, nil
}

// Free releases an occupied table. A seated reservation is completed with it so
// the table never keeps an arrived party after it is free.
func Free(s Snapshot, tableID string, now time.Time) (Snapshot, Table, error) {
	next := s.Clone()
	t, ok := next.Table(tableID)
	if !ok {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	if t.Status != StatusOccupied {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotOccupied, tableID)
	}
	completeSeated(&t, now)
	release(&t)
	next.put(t)
	return next, t, nil
}

func completeSeated(t *Table, now time.Time) {
	for i := range t.Reservations {
		if t.Reservations[i].Status == ReservationArrived {
			t.Reservations[i].Status = ReservationCompleted
			t.Reservations[i].UpdatedAt = now
		}
	}
}

// Reset forces a table back to its baseline: free, no timers, original capacity.
// A seated party is completed as Free does. Other reservations stay as they are.
func Reset(s Snapshot, tableID string, now time.Time) (Snapshot, Table, error) {
	next := s.Clone()
	t, ok := next.Table(tableID)
	if !ok {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	completeSeated(&t, now)
	release(&t)
	t.Capacity = t.OriginalCapacity
	t.IsExtended = false
	next.put(t)
	return next, t, nil
}

// RecordOrder stamps the time of the latest order placed at an occupied table.
func RecordOrder(s Snapshot, tableID string, now time.Time) (Snapshot, Table, error) {
	next := s.Clone()
	t, ok := next.Table(tableID)
	if !ok {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	if t.Status != StatusOccupied {
		return s, Table{}, fmt.Errorf("%w: %s", ErrTableNotOccupied, tableID)
	}
	at := now
	t.LastOrderAt = &at
	next.put(t)
	return next, t, nil
}

// HasUnresolvedEarlier reports whether the table holds an upcoming reservation on
// the same date that starts before the given one.
func HasUnresolvedEarlier(t Table, reservationID string) bool {
	i := t.reservationIndex(reservationID)
	if i < 0 {
		return false
	}
	target := t.Reservations[i]
	targetStart, err := scheduler.ParseClock(target.Time)
	if err != nil {
		return false
	}
	for _, r := range t.Reservations {
		if r.ID == target.ID || r.Date != target.Date || !r.Status.Upcoming() {
			continue
		}
		start, err := scheduler.ParseClock(r.Time)
		if err != nil {
			continue
		}
		if start < targetStart {
			return true
		}
	}
	return false
}

// ImminentReservations lists the upcoming reservations on date whose windows
// overlap a walk-in seated at nowMinutes, earliest first.
func ImminentReservations(t Table, date string, nowMinutes, lookahead int, fallback scheduler.TurnTimeConfig) []Reservation {
	cfg := t.TurnTimes(fallback)
	var out []Reservation
	for _, r := range t.ReservationsOn(date) {
		if !r.Status.Upcoming() {
			continue
		}
		start, err := scheduler.ParseClock(r.Time)
		if err != nil {
			continue
		}
		if scheduler.OverlapsWalkIn(start, r.Guests, nowMinutes, lookahead, cfg) {
			out = append(out, r)
		}
	}
	return out
}

func seat(t *Table, now time.Time) {
	seated := now
	order := now
	t.Status = StatusOccupied
	t.SeatedAt = &seated
	t.LastOrderAt = &order
}

func release(t *Table) {
	t.Status = StatusFree
	t.SeatedAt = nil
	t.LastOrderAt = nil
}
