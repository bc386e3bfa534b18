package floor

import (
	"fmt"
	"time"

	"github.com/example/floor-manager/internal/scheduler"
)

// CheckFit validates a reservation against a table: party size against capacity,
// then the reservation's window against the table's other active bookings on the
// same date. The reservation's own id is ignored, so edits can be re-checked in place.
func CheckFit(t Table, r Reservation, fallback scheduler.TurnTimeConfig) error {
	if r.Guests > t.Capacity {
		return newCapacityConflict(t.ID, r.Guests, t.Capacity)
	}
	with, err := TimeConflicts(t, r, fallback)
	if err != nil {
		return err
	}
	if len(with) > 0 {
		return newTimeConflict(t.ID, with)
	}
	return nil
}

// TimeConflicts lists the ids of the table's active reservations whose windows
// overlap r, using the table's turn times.
func TimeConflicts(t Table, r Reservation, fallback scheduler.TurnTimeConfig) ([]string, error) {
	candidate, err := r.Booking()
	if err != nil {
		return nil, err
	}
	candidate.Active = true
	existing := make([]scheduler.Booking, 0, len(t.Reservations))
	for _, other := range t.Reservations {
		b, err := other.Booking()
		if err != nil {
			continue
		}
		existing = append(existing, b)
	}
	var with []string
	for _, c := range scheduler.DetectConflicts(existing, candidate, t.TurnTimes(fallback)) {
		with = append(with, c.WithBookingID)
	}
	return with, nil
}

// AddReservation books r on the table, or into the unassigned pool when tableID is
// empty. Conflicts are returned as *ConflictError unless force is set.
func AddReservation(s Snapshot, tableID string, r Reservation, force bool, fallback scheduler.TurnTimeConfig) (Snapshot, Reservation, error) {
	if _, _, exists := s.FindReservation(r.ID); exists || r.ID == "" {
		return s, Reservation{}, fmt.Errorf("%w: reservation %q", ErrDuplicateID, r.ID)
	}
	if r.Status == "" {
		r.Status = ReservationConfirmed
	}
	next := s.Clone()
	if tableID == "" {
		r.TableID, r.TableName, r.OriginTableID = "", "", ""
		next.Unassigned = append(next.Unassigned, r)
		return next, r, nil
	}
	t, ok := next.Table(tableID)
	if !ok {
		return s, Reservation{}, fmt.Errorf("%w: %s", ErrTableNotFound, tableID)
	}
	if !force {
		if err := CheckFit(t, r, fallback); err != nil {
			return s, Reservation{}, err
		}
	}
	attach(&t, &r)
	t.Reservations = append(t.Reservations, r)
	next.put(t)
	return next, r, nil
}

// MoveReservation relocates a reservation to another table. fromTableID, when
// non-empty, must name the table currently holding the reservation; pass the empty
// string for a reservation in the unassigned pool. The destination is always
// re-validated for capacity and time unless force is set.
func MoveReservation(s Snapshot, reservationID, fromTableID, toTableID string, force bool, fallback scheduler.TurnTimeConfig, now time.Time) (Snapshot, Reservation, error) {
	current, r, ok := s.FindReservation(reservationID)
	if !ok {
		return s, Reservation{}, fmt.Errorf("%w: %s", ErrReservationNotFound, reservationID)
	}
	if current != fromTableID {
		return s, Reservation{}, fmt.Errorf("%w: %s", ErrReservationNotOnTable, reservationID)
	}
	if !r.Status.Upcoming() {
		return s, Reservation{}, fmt.Errorf("%w: move from %s", ErrInvalidTransition, r.Status)
	}
	dest, ok := s.Table(toTableID)
	if !ok {
		return s, Reservation{}, fmt.Errorf("%w: %s", ErrTableNotFound, toTableID)
	}
	if current == toTableID {
		return s, r, nil
	}
	if !force {
		if err := CheckFit(dest, r, fallback); err != nil {
			return s, Reservation{}, err
		}
	}

	next := s.Clone()
	next.detach(current, reservationID)
	dest = next.Tables[toTableID]
	r.UpdatedAt = now
	attach(&dest, &r)
	dest.Reservations = append(dest.Reservations, r)
	next.put(dest)
	return next, r, nil
}

// UpdateReservation replaces the editable fields of a stored reservation. A
// reservation on a table is re-validated against the table's other bookings.
// Only confirmed and pending reservations can be edited.
func UpdateReservation(s Snapshot, updated Reservation, force bool, fallback scheduler.TurnTimeConfig) (Snapshot, Reservation, error) {
	tableID, stored, ok := s.FindReservation(updated.ID)
	if !ok {
		return s, Reservation{}, fmt.Errorf("%w: %s", ErrReservationNotFound, updated.ID)
	}
	if !stored.Status.Upcoming() {
		return s, Reservation{}, fmt.Errorf("%w: cannot edit a %s reservation", ErrInvalidTransition, stored.Status)
	}
	stored.FirstName = updated.FirstName
	stored.LastName = updated.LastName
	stored.Guests = updated.Guests
	stored.Email = updated.Email
	stored.Phone = updated.Phone
	stored.Date = updated.Date
	stored.Time = updated.Time
	stored.Notes = updated.Notes
	stored.UpdatedAt = updated.UpdatedAt
	if updated.Status.Upcoming() && stored.Status.Upcoming() {
		stored.Status = updated.Status
	}

	next := s.Clone()
	if tableID == "" {
		for i := range next.Unassigned {
			if next.Unassigned[i].ID == stored.ID {
				next.Unassigned[i] = stored
			}
		}
		return next, stored, nil
	}
	t := next.Tables[tableID]
	if !force && stored.Status.Blocking() {
		if err := CheckFit(t, stored, fallback); err != nil {
			return s, Reservation{}, err
		}
	}
	t.Reservations[t.reservationIndex(stored.ID)] = stored
	next.put(t)
	return next, stored, nil
}

// CancelReservation cancels a reservation that has not been seated yet. The record
// stays on its table for history but no longer blocks the table.
func CancelReservation(s Snapshot, reservationID string, now time.Time) (Snapshot, Reservation, error) {
	tableID, r, ok := s.FindReservation(reservationID)
	if !ok {
		return s, Reservation{}, fmt.Errorf("%w: %s", ErrReservationNotFound, reservationID)
	}
	if !r.Status.Upcoming() {
		return s, Reservation{}, fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, r.Status)
	}
	r.Status = ReservationCancelled
	r.UpdatedAt = now

	next := s.Clone()
	if tableID == "" {
		for i := range next.Unassigned {
			if next.Unassigned[i].ID == r.ID {
				next.Unassigned[i] = r
			}
		}
		return next, r, nil
	}
	t := next.Tables[tableID]
	t.Reservations[t.reservationIndex(r.ID)] = r
	next.put(t)
	return next, r, nil
}

// DeleteReservation removes a reservation wherever it lives. A seated party must be
// checked out first.
func DeleteReservation(s Snapshot, reservationID string) (Snapshot, Reservation, error) {
	tableID, r, ok := s.FindReservation(reservationID)
	if !ok {
		return s, Reservation{}, fmt.Errorf("%w: %s", ErrReservationNotFound, reservationID)
	}
	if r.Status == ReservationArrived {
		return s, Reservation{}, fmt.Errorf("%w: delete from %s", ErrInvalidTransition, r.Status)
	}
	next := s.Clone()
	next.detach(tableID, reservationID)
	return next, r, nil
}

func attach(t *Table, r *Reservation) {
	r.TableID = t.ID
	r.TableName = t.Name
	if t.IsMerged() {
		r.OriginTableID = ""
	} else {
		r.OriginTableID = t.ID
	}
}

func (s *Snapshot) detach(tableID, reservationID string) {
	if tableID == "" {
		for i, r := range s.Unassigned {
			if r.ID == reservationID {
				s.Unassigned = append(s.Unassigned[:i], s.Unassigned[i+1:]...)
				return
			}
		}
		return
	}
	t := s.Tables[tableID]
	if i := t.reservationIndex(reservationID); i >= 0 {
		t.Reservations = append(t.Reservations[:i], t.Reservations[i+1:]...)
		s.put(t)
	}
}
