package floor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTableNotFound indicates the table id is not on the floor.
	ErrTableNotFound = errors.New("floor: table not found")
	// ErrReservationNotFound indicates the reservation id is unknown.
	ErrReservationNotFound = errors.New("floor: reservation not found")
	// ErrReservationNotOnTable indicates the reservation belongs to another table.
	ErrReservationNotOnTable = errors.New("floor: reservation not on table")
	// ErrTableOccupied indicates the table must be free for the operation.
	ErrTableOccupied = errors.New("floor: table is occupied")
	// ErrTableNotOccupied indicates the table has no party to release.
	ErrTableNotOccupied = errors.New("floor: table is not occupied")
	// ErrMergeOccupied rejects merges that include an occupied table.
	ErrMergeOccupied = errors.New("floor: cannot merge occupied tables")
	// ErrMergeTooFew rejects merges of fewer than two distinct tables.
	ErrMergeTooFew = errors.New("floor: merge needs at least two distinct tables")
	// ErrNothingToSplit indicates the table was never merged.
	ErrNothingToSplit = errors.New("floor: table has no sub-tables to split")
	// ErrInvalidTransition rejects a reservation status change from its current state.
	ErrInvalidTransition = errors.New("floor: invalid reservation transition")
	// ErrPartyAlreadySeated indicates the table already holds an arrived party.
	ErrPartyAlreadySeated = errors.New("floor: table already has a seated party")
	// ErrEarlierReservationPending blocks check-in while an earlier party is unresolved.
	ErrEarlierReservationPending = errors.New("floor: earlier reservation on table is unresolved")
	// ErrDuplicateID indicates a newly minted id collides with an existing record.
	ErrDuplicateID = errors.New("floor: duplicate id")
)

// ConflictKind distinguishes overridable booking conflicts.
type ConflictKind string

const (
	ConflictTime     ConflictKind = "time"
	ConflictCapacity ConflictKind = "capacity"
)

// Resolution is an action the operator may take on a conflict.
type Resolution string

const (
	ResolutionForce  Resolution = "force"
	ResolutionMerge  Resolution = "merge"
	ResolutionCancel Resolution = "cancel"
)

// ConflictError reports a booking the operator may still force through.
type ConflictError struct {
	Kind        ConflictKind
	TableID     string
	Guests      int
	Capacity    int
	With        []string
	Resolutions []Resolution
}

func newTimeConflict(tableID string, with []string) *ConflictError {
	return &ConflictError{
		Kind:        ConflictTime,
		TableID:     tableID,
		With:        with,
		Resolutions: []Resolution{ResolutionForce, ResolutionCancel},
	}
}

func newCapacityConflict(tableID string, guests, capacity int) *ConflictError {
	return &ConflictError{
		Kind:        ConflictCapacity,
		TableID:     tableID,
		Guests:      guests,
		Capacity:    capacity,
		Resolutions: []Resolution{ResolutionForce, ResolutionMerge, ResolutionCancel},
	}
}

func (e *ConflictError) Error() string {
	if e.Kind == ConflictCapacity {
		return fmt.Sprintf("floor: party of %d exceeds capacity %d of table %s", e.Guests, e.Capacity, e.TableID)
	}
	return fmt.Sprintf("floor: table %s already booked by %s", e.TableID, strings.Join(e.With, ", "))
}

// ImminentReservationError asks the caller to decide whether a walk-in is one of
// the listed reservations.
type ImminentReservationError struct {
	TableID    string
	Candidates []Reservation
}

func (e *ImminentReservationError) Error() string {
	return fmt.Sprintf("floor: table %s has %d imminent reservation(s)", e.TableID, len(e.Candidates))
}
