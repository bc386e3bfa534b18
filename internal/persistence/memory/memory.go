// Package memory provides a process-local snapshot repository.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/example/floor-manager/internal/persistence"
)

// Storage keeps snapshots in a map guarded by a mutex.
type Storage struct {
	mu        sync.RWMutex
	snapshots map[string]persistence.SnapshotRecord
}

// New returns an empty Storage.
func New() *Storage {
	return &Storage{snapshots: make(map[string]persistence.SnapshotRecord)}
}

// Close releases resources held by the storage. No-op for the in-memory implementation.
func (s *Storage) Close() error {
	return nil
}

// GetSnapshot retrieves the snapshot of a venue.
func (s *Storage) GetSnapshot(_ context.Context, venueID string) (persistence.SnapshotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.snapshots[venueID]
	if !ok {
		return persistence.SnapshotRecord{}, persistence.ErrNotFound
	}
	return cloneRecord(record), nil
}

// SaveSnapshot stores the snapshot if expectedVersion matches the stored version.
func (s *Storage) SaveSnapshot(_ context.Context, record persistence.SnapshotRecord, expectedVersion int64) (persistence.SnapshotRecord, error) {
	if record.VenueID == "" {
		return persistence.SnapshotRecord{}, fmt.Errorf("memory: venue id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.snapshots[record.VenueID]
	switch {
	case !ok && expectedVersion != 0:
		return persistence.SnapshotRecord{}, persistence.ErrVersionConflict
	case ok && current.Version != expectedVersion:
		return persistence.SnapshotRecord{}, persistence.ErrVersionConflict
	}

	record.Version = expectedVersion + 1
	s.snapshots[record.VenueID] = cloneRecord(record)
	return cloneRecord(record), nil
}

// ListVenues returns the stored venue ids.
func (s *Storage) ListVenues(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	venues := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		venues = append(venues, id)
	}
	sort.Strings(venues)
	return venues, nil
}

func cloneRecord(r persistence.SnapshotRecord) persistence.SnapshotRecord {
	r.Payload = append([]byte(nil), r.Payload...)
	return r
}
