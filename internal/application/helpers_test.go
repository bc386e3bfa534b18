package application

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/example/floor-manager/internal/floor"
	"github.com/example/floor-manager/internal/persistence"
	"github.com/example/floor-manager/internal/scheduler"
)

var testNow = time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)

const testDate = "2026-03-01"

var testShortTurns = scheduler.TurnTimeConfig{Small: 45, Medium: 60, Large: 90}

type snapshotStoreStub struct {
	mu      sync.Mutex
	snap    floor.Snapshot
	version int64
	saved   bool
	loads   int
	saves   int
	loadErr error
	saveErr error
}

func (s *snapshotStoreStub) LoadSnapshot(ctx context.Context, venueID string) (floor.Snapshot, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return floor.Snapshot{}, 0, s.loadErr
	}
	if !s.saved {
		return floor.Snapshot{}, 0, persistence.ErrNotFound
	}
	return s.snap.Clone(), s.version, nil
}

func (s *snapshotStoreStub) SaveSnapshot(ctx context.Context, venueID string, snap floor.Snapshot, expectedVersion int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return 0, s.saveErr
	}
	if expectedVersion != s.version {
		return 0, persistence.ErrVersionConflict
	}
	s.snap = snap.Clone()
	s.version++
	s.saved = true
	s.saves++
	return s.version, nil
}

func sequentialIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func testSettings() FloorSettings {
	settings := DefaultFloorSettings()
	settings.VenueID = "bistro"
	settings.SnapshotCacheTTL = 0
	return settings
}

func newTestService(t *testing.T, store SnapshotStore, settings FloorSettings) *FloorService {
	t.Helper()
	return NewFloorService(store, settings, sequentialIDs("id"), func() time.Time { return testNow })
}

func mustAddTable(t *testing.T, svc *FloorService, name string, capacity int) floor.Table {
	t.Helper()
	table, err := svc.AddTable(context.Background(), AddTableParams{Name: name, Capacity: capacity})
	if err != nil {
		t.Fatalf("AddTable(%s) error = %v", name, err)
	}
	return table
}

func mustReserve(t *testing.T, svc *FloorService, tableID, clock string, guests int) floor.Reservation {
	t.Helper()
	r, err := svc.AddReservation(context.Background(), AddReservationParams{
		TableID: tableID,
		Input:   ReservationInput{FirstName: "Guest", Guests: guests, Date: testDate, Time: clock},
	})
	if err != nil {
		t.Fatalf("AddReservation(%s %s) error = %v", tableID, clock, err)
	}
	return r
}

func mustSnapshot(t *testing.T, svc *FloorService) floor.Snapshot {
	t.Helper()
	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	return snap
}
