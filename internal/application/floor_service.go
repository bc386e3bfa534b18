package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/example/floor-manager/internal/floor"
	"github.com/example/floor-manager/internal/persistence"
	"github.com/example/floor-manager/internal/scheduler"
)

// SnapshotStore persists a venue's floor snapshot with optimistic versioning.
// LoadSnapshot returns persistence.ErrNotFound for a venue that was never saved.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, venueID string) (floor.Snapshot, int64, error)
	SaveSnapshot(ctx context.Context, venueID string, snapshot floor.Snapshot, expectedVersion int64) (int64, error)
}

// FloorService serialises every floor mutation of one venue: load the snapshot,
// compute the next one, save it. A failed operation leaves the stored floor as it was.
type FloorService struct {
	store       SnapshotStore
	settings    FloorSettings
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	cache       *snapshotCache

	mu sync.Mutex
}

// NewFloorService constructs a floor service with the provided dependencies.
func NewFloorService(store SnapshotStore, settings FloorSettings, idGenerator func() string, now func() time.Time) *FloorService {
	return NewFloorServiceWithLogger(store, settings, idGenerator, now, nil)
}

// NewFloorServiceWithLogger constructs a floor service with a specified logger.
func NewFloorServiceWithLogger(store SnapshotStore, settings FloorSettings, idGenerator func() string, now func() time.Time, logger *slog.Logger) *FloorService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	defaults := DefaultFloorSettings()
	if settings.VenueID == "" {
		settings.VenueID = defaults.VenueID
	}
	if settings.TurnTimes.Validate() != nil {
		settings.TurnTimes = scheduler.Effective(&settings.TurnTimes, defaults.TurnTimes)
	}
	if settings.Location == nil {
		settings.Location = defaults.Location
	}
	return &FloorService{
		store:       store,
		settings:    settings,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
		cache:       newSnapshotCache(settings.SnapshotCacheTTL, now),
	}
}

func (s *FloorService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "FloorService", operation, append([]any{"venue_id", s.settings.VenueID}, attrs...)...)
}

// Settings returns the scheduling policy in effect.
func (s *FloorService) Settings() FloorSettings {
	return s.settings
}

// Snapshot returns the current floor.
func (s *FloorService) Snapshot(ctx context.Context) (floor.Snapshot, error) {
	if s == nil {
		return floor.Snapshot{}, fmt.Errorf("FloorService is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, _, err := s.load(ctx)
	return snap, err
}

func (s *FloorService) load(ctx context.Context) (floor.Snapshot, int64, error) {
	if s.store == nil {
		return floor.Snapshot{}, 0, fmt.Errorf("snapshot store not configured")
	}
	if snap, version, ok := s.cache.Get(); ok {
		return snap, version, nil
	}
	snap, version, err := s.store.LoadSnapshot(ctx, s.settings.VenueID)
	if errors.Is(err, persistence.ErrNotFound) {
		return floor.NewSnapshot(), 0, nil
	}
	if err != nil {
		return floor.Snapshot{}, 0, mapStoreError(err)
	}
	s.cache.Store(snap, version)
	return snap, version, nil
}

func (s *FloorService) mutate(ctx context.Context, apply func(floor.Snapshot) (floor.Snapshot, error)) error {
	if s == nil {
		return fmt.Errorf("FloorService is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.apply(ctx, apply)
	if errors.Is(err, ErrConcurrentUpdate) && s.cache != nil {
		// The cached floor may have been stale; retry once against the store.
		s.cache.Invalidate()
		err = s.apply(ctx, apply)
	}
	return err
}

func (s *FloorService) apply(ctx context.Context, apply func(floor.Snapshot) (floor.Snapshot, error)) error {
	current, version, err := s.load(ctx)
	if err != nil {
		return err
	}
	next, err := apply(current)
	if err != nil {
		return err
	}
	saved, err := s.store.SaveSnapshot(ctx, s.settings.VenueID, next, version)
	if err != nil {
		s.cache.Invalidate()
		return mapStoreError(err)
	}
	s.cache.Store(next, saved)
	return nil
}

func mapStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrVersionConflict):
		return ErrConcurrentUpdate
	}
	return fmt.Errorf("snapshot store: %w", err)
}

// clock returns the injected time in the venue's location with its date and
// minutes since midnight.
func (s *FloorService) clock() (time.Time, string, int) {
	now := s.now().In(s.settings.Location)
	date, minutes := scheduler.DateAndClock(now)
	return now, date, minutes
}

// ResolveTurnTime returns the expected occupancy for a party, using the table's own
// turn times when tableID is given.
func (s *FloorService) ResolveTurnTime(ctx context.Context, guests int, tableID string) (int, error) {
	if guests < 1 {
		vErr := &ValidationError{}
		vErr.add("guests", "guests must be at least 1")
		return 0, vErr
	}
	cfg, err := s.turnTimesFor(ctx, tableID)
	if err != nil {
		return 0, err
	}
	return scheduler.ResolveTurnTime(guests, cfg), nil
}

// Conflicts reports whether two parties would collide on the same table.
func (s *FloorService) Conflicts(ctx context.Context, query ConflictQuery) (bool, error) {
	vErr := &ValidationError{}
	timeA, err := scheduler.ParseClock(query.TimeA)
	if err != nil {
		vErr.add("time_a", "time must be HH:MM")
	}
	timeB, err := scheduler.ParseClock(query.TimeB)
	if err != nil {
		vErr.add("time_b", "time must be HH:MM")
	}
	if query.GuestsA < 1 {
		vErr.add("guests_a", "guests must be at least 1")
	}
	if query.GuestsB < 1 {
		vErr.add("guests_b", "guests must be at least 1")
	}
	if vErr.HasErrors() {
		return false, vErr
	}
	cfg, err := s.turnTimesFor(ctx, query.TableID)
	if err != nil {
		return false, err
	}
	return scheduler.Conflicts(timeA, query.GuestsA, timeB, query.GuestsB, cfg), nil
}

func (s *FloorService) turnTimesFor(ctx context.Context, tableID string) (scheduler.TurnTimeConfig, error) {
	if strings.TrimSpace(tableID) == "" {
		return s.settings.TurnTimes, nil
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return scheduler.TurnTimeConfig{}, err
	}
	t, ok := snap.Table(tableID)
	if !ok {
		return scheduler.TurnTimeConfig{}, fmt.Errorf("%w: %s", floor.ErrTableNotFound, tableID)
	}
	return t.TurnTimes(s.settings.TurnTimes), nil
}

// Occupy seats a party at a free table. With a reservation id the booking is
// checked in. A walk-in on a table with imminent bookings fails with
// *floor.ImminentReservationError unless the caller acknowledged it as unrelated.
func (s *FloorService) Occupy(ctx context.Context, params OccupyParams) (table floor.Table, err error) {
	logger := s.loggerWith(ctx, "Occupy",
		"table_id", params.TableID,
		"reservation_id", params.ReservationID,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to occupy table", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "table occupied")
	}()

	if params.ReservationID != "" {
		table, err = s.checkIn(ctx, params.TableID, params.ReservationID)
		return
	}

	now, date, minutes := s.clock()
	lookahead := int(s.settings.WalkInLookahead / time.Minute)
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		if t, ok := snap.Table(params.TableID); ok && t.Status == floor.StatusFree && !params.AcknowledgeWalkIn {
			candidates := floor.ImminentReservations(t, date, minutes, lookahead, s.settings.TurnTimes)
			if len(candidates) > 0 {
				return snap, &floor.ImminentReservationError{TableID: t.ID, Candidates: candidates}
			}
		}
		next, t, err := floor.Occupy(snap, params.TableID, now)
		table = t
		return next, err
	})
	return
}

// CheckIn seats the party of a reservation at its table.
func (s *FloorService) CheckIn(ctx context.Context, tableID, reservationID string) (table floor.Table, err error) {
	logger := s.loggerWith(ctx, "CheckIn", "table_id", tableID, "reservation_id", reservationID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to check in reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation checked in")
	}()

	table, err = s.checkIn(ctx, tableID, reservationID)
	return
}

func (s *FloorService) checkIn(ctx context.Context, tableID, reservationID string) (table floor.Table, err error) {
	now := s.now()
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, t, err := floor.CheckIn(snap, tableID, reservationID, now)
		table = t
		return next, err
	})
	return
}

// CheckOut completes the seated reservation and frees the table.
func (s *FloorService) CheckOut(ctx context.Context, tableID, reservationID string) (table floor.Table, err error) {
	logger := s.loggerWith(ctx, "CheckOut", "table_id", tableID, "reservation_id", reservationID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to check out reservation", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "reservation checked out")
	}()

	now := s.now()
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, t, err := floor.CheckOut(snap, tableID, reservationID, now)
		table = t
		return next, err
	})
	return
}

// Free releases an occupied table, completing any seated reservation.
func (s *FloorService) Free(ctx context.Context, tableID string) (table floor.Table, err error) {
	logger := s.loggerWith(ctx, "Free", "table_id", tableID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to free table", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "table freed")
	}()

	now := s.now()
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, t, err := floor.Free(snap, tableID, now)
		table = t
		return next, err
	})
	return
}

// Reset restores a table to free at its original capacity.
func (s *FloorService) Reset(ctx context.Context, tableID string) (table floor.Table, err error) {
	logger := s.loggerWith(ctx, "Reset", "table_id", tableID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to reset table", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "table reset")
	}()

	now := s.now()
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, t, err := floor.Reset(snap, tableID, now)
		table = t
		return next, err
	})
	return
}

// RecordOrder stamps the latest order time of an occupied table.
func (s *FloorService) RecordOrder(ctx context.Context, tableID string) (table floor.Table, err error) {
	now := s.now()
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, t, err := floor.RecordOrder(snap, tableID, now)
		table = t
		return next, err
	})
	if err != nil {
		s.loggerWith(ctx, "RecordOrder", "table_id", tableID).
			ErrorContext(ctx, "failed to record order", "error", err, "error_kind", ErrorKind(err))
	}
	return
}

// Merge combines free tables into one composite table.
func (s *FloorService) Merge(ctx context.Context, params MergeParams) (table floor.Table, err error) {
	logger := s.loggerWith(ctx, "Merge",
		"target_id", params.TargetID,
		"source_ids", params.SourceIDs,
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to merge tables", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("table_id", table.ID, "capacity", table.Capacity).InfoContext(ctx, "tables merged")
	}()

	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, t, err := floor.Merge(snap, params.TargetID, params.SourceIDs, s.idGenerator())
		table = t
		return next, err
	})
	return
}

// Split restores the tables absorbed by a merge.
func (s *FloorService) Split(ctx context.Context, tableID string) (result floor.SplitResult, err error) {
	logger := s.loggerWith(ctx, "Split", "table_id", tableID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to split table", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("restored", len(result.Tables), "unassigned", len(result.Unassigned)).InfoContext(ctx, "table split")
	}()

	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, r, err := floor.Split(snap, tableID)
		result = r
		return next, err
	})
	return
}

// AddTable places a new table on the floor. Temporary tables are quick-adds that
// can later be made permanent.
func (s *FloorService) AddTable(ctx context.Context, params AddTableParams) (table floor.Table, err error) {
	logger := s.loggerWith(ctx, "AddTable", "name", params.Name)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add table", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("table_id", table.ID).InfoContext(ctx, "table added")
	}()

	vErr := validateTableParams(params)
	if vErr.HasErrors() {
		err = vErr
		return
	}
	floorName := strings.TrimSpace(params.Floor)
	if floorName == "" {
		floorName = defaultFloorName
	}
	candidate := floor.Table{
		ID:               s.idGenerator(),
		Name:             strings.TrimSpace(params.Name),
		Floor:            floorName,
		Position:         params.Position,
		Shape:            params.Shape,
		Capacity:         params.Capacity,
		OriginalCapacity: params.Capacity,
		IsTemporary:      params.Temporary,
		TurnTime:         params.TurnTime,
	}
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, t, err := floor.AddTable(snap, candidate)
		table = t
		return next, err
	})
	return
}

// UpdateTable applies the requested rename, capacity change and permanence flag.
func (s *FloorService) UpdateTable(ctx context.Context, params UpdateTableParams) (table floor.Table, err error) {
	logger := s.loggerWith(ctx, "UpdateTable", "table_id", params.TableID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update table", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "table updated")
	}()

	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		vErr := &ValidationError{}
		vErr.add("name", "name is required")
		err = vErr
		return
	}

	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		t, ok := snap.Table(params.TableID)
		if !ok {
			return snap, fmt.Errorf("%w: %s", floor.ErrTableNotFound, params.TableID)
		}
		next := snap
		var err error
		if params.Name != nil {
			if next, t, err = floor.RenameTable(next, params.TableID, strings.TrimSpace(*params.Name)); err != nil {
				return snap, err
			}
		}
		if params.CapacityDelta != 0 {
			if next, t, err = floor.AdjustCapacity(next, params.TableID, params.CapacityDelta); err != nil {
				return snap, err
			}
		}
		if params.MakePermanent {
			if next, t, err = floor.MakePermanent(next, params.TableID); err != nil {
				return snap, err
			}
		}
		table = t
		return next, nil
	})
	return
}

// RemoveTable deletes a free table, moving its upcoming reservations to the
// unassigned pool.
func (s *FloorService) RemoveTable(ctx context.Context, tableID string) (moved []floor.Reservation, err error) {
	logger := s.loggerWith(ctx, "RemoveTable", "table_id", tableID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to remove table", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("unassigned", len(moved)).InfoContext(ctx, "table removed")
	}()

	now := s.now()
	err = s.mutate(ctx, func(snap floor.Snapshot) (floor.Snapshot, error) {
		next, m, err := floor.RemoveTable(snap, tableID, now)
		moved = m
		return next, err
	})
	return
}
