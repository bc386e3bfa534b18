package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/floor-manager/internal/floor"
	"github.com/example/floor-manager/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind maps sentinel, conflict and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var conflict *floor.ConflictError
	if errors.As(err, &conflict) {
		return string(conflict.Kind) + "_conflict"
	}
	var imminent *floor.ImminentReservationError
	if errors.As(err, &imminent) {
		return "imminent_reservation"
	}

	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, floor.ErrTableNotFound),
		errors.Is(err, floor.ErrReservationNotFound):
		return "not_found"
	case errors.Is(err, ErrConcurrentUpdate):
		return "concurrent_update"
	case errors.Is(err, floor.ErrTableOccupied):
		return "table_occupied"
	case errors.Is(err, floor.ErrTableNotOccupied):
		return "table_not_occupied"
	case errors.Is(err, floor.ErrMergeOccupied):
		return "merge_occupied"
	case errors.Is(err, floor.ErrMergeTooFew):
		return "merge_too_few"
	case errors.Is(err, floor.ErrNothingToSplit):
		return "nothing_to_split"
	case errors.Is(err, floor.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, floor.ErrPartyAlreadySeated):
		return "party_already_seated"
	case errors.Is(err, floor.ErrEarlierReservationPending):
		return "earlier_reservation_pending"
	case errors.Is(err, floor.ErrReservationNotOnTable):
		return "reservation_not_on_table"
	case errors.Is(err, floor.ErrDuplicateID):
		return "duplicate_id"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
