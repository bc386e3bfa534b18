package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/floor-manager/internal/floor"
)

func newReservation(id string, input ReservationInput, now time.Time) floor.Reservation {
	return floor.Reservation{
		ID:        id,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Guests:    input.Guests,
		Email:     input.Email,
		Phone:     input.Phone,
		Date:      input.Date,
		Time:      input.Time,
		Notes:     input.Notes,
		Status:    input.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddReservation books a party on a table or, without a table, into the unassigned
// pool. Capacity and time conflicts are returned as *floor.ConflictError unless forced.
func (s *FloorService) AddReservation(ctx context.Context, params AddReservationParams) (reservation floor.Reservation, err error) {
	logger := s.loggerWith(ctx, "AddReservation", "table_id", params.TableID, "force", params.Force)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("reservation_id", reservation.ID).InfoContext(ctx, "reservation added")
	}()

	input, vErr := validateReservationInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	candidate := newReservation(s.idGenerator(), input, s.now())
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, r, err := floor.AddReservation(snap, strings.TrimSpace(params.TableID), candidate, params.Force, s.settings.TurnTimes)
		reservation = r
		return next, err
	})
	return
}

// MergeAndReserve merges the selected tables and books the party on the composite.
// The combined capacity must seat the whole party.
func (s *FloorService) MergeAndReserve(ctx context.Context, params MergeAndReserveParams) (table floor.Table, reservation floor.Reservation, err error) {
	logger := s.loggerWith(ctx, "MergeAndReserve", "table_ids", params.TableIDs)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to merge and reserve", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("table_id", table.ID, "reservation_id", reservation.ID).InfoContext(ctx, "tables merged for reservation")
	}()

	input, vErr := validateReservationInput(params.Input)
	ids := uniqueStrings(params.TableIDs)
	if len(ids) < 2 {
		vErr.add("table_ids", "select at least two tables")
	}
	if vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now()
	candidate := newReservation(s.idGenerator(), input, now)
	mergedID := s.idGenerator()
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		total := 0
		for _, id := range ids {
			t, ok := snap.Table(id)
			if !ok {
				return snap, fmt.Errorf("%w: %s", floor.ErrTableNotFound, id)
			}
			total += t.Capacity
		}
		if total < input.Guests {
			capErr := &ValidationError{}
			capErr.add("table_ids", fmt.Sprintf("combined capacity %d is below party size %d", total, input.Guests))
			return snap, capErr
		}
		merged, m, err := floor.Merge(snap, ids[0], ids[1:], mergedID)
		if err != nil {
			return snap, err
		}
		next, r, err := floor.AddReservation(merged, m.ID, candidate, params.Force, s.settings.TurnTimes)
		if err != nil {
			return snap, err
		}
		table = next.Tables[m.ID]
		reservation = r
		return next, nil
	})
	return
}

// UpdateReservation edits a reservation in place, re-checking its table.
func (s *FloorService) UpdateReservation(ctx context.Context, params UpdateReservationParams) (reservation floor.Reservation, err error) {
	logger := s.loggerWith(ctx, "UpdateReservation", "reservation_id", params.ReservationID, "force", params.Force)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation updated")
	}()

	input, vErr := validateReservationInput(params.Input)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	updated := newReservation(params.ReservationID, input, s.now())
	if params.Input.Status == "" {
		updated.Status = ""
	}
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, r, err := floor.UpdateReservation(snap, updated, params.Force, s.settings.TurnTimes)
		reservation = r
		return next, err
	})
	return
}

// MoveReservation relocates a reservation; the destination is always re-validated.
func (s *FloorService) MoveReservation(ctx context.Context, params MoveReservationParams) (reservation floor.Reservation, err error) {
	logger := s.loggerWith(ctx, "MoveReservation",
		"reservation_id", params.ReservationID,
		"from_table_id", params.FromTableID,
		"to_table_id", params.ToTableID,
		"force", params.Force,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to move reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation moved")
	}()

	now := s.now()
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, r, err := floor.MoveReservation(snap, params.ReservationID, params.FromTableID, params.ToTableID, params.Force, s.settings.TurnTimes, now)
		reservation = r
		return next, err
	})
	return
}

// CancelReservation cancels a booking that has not been seated.
func (s *FloorService) CancelReservation(ctx context.Context, reservationID string) (reservation floor.Reservation, err error) {
	logger := s.loggerWith(ctx, "CancelReservation", "reservation_id", reservationID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to cancel reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation cancelled")
	}()

	now := s.now()
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, r, err := floor.CancelReservation(snap, reservationID, now)
		reservation = r
		return next, err
	})
	return
}

// DeleteReservation removes a booking entirely.
func (s *FloorService) DeleteReservation(ctx context.Context, reservationID string) (err error) {
	logger := s.loggerWith(ctx, "DeleteReservation", "reservation_id", reservationID)
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, _, err := floor.DeleteReservation(snap, reservationID)
		return next, err
	})
	if err != nil {
		logger.ErrorContext(ctx, "failed to delete reservation", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "reservation deleted")
	return nil
}

func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
