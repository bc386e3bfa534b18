// Package floorstore encodes floor snapshots for a persistence.SnapshotRepository.
package floorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/floor-manager/internal/floor"
	"github.com/example/floor-manager/internal/persistence"
)

const schemaVersion = 1

type envelope struct {
	Schema   int            `json:"schema"`
	Snapshot floor.Snapshot `json:"snapshot"`
}

// Store satisfies application.SnapshotStore on top of a SnapshotRepository.
type Store struct {
	repo persistence.SnapshotRepository
	now  func() time.Time
}

// New wraps repo. A nil now defaults to time.Now.
func New(repo persistence.SnapshotRepository, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{repo: repo, now: now}
}

// LoadSnapshot decodes the stored snapshot of a venue and returns its version.
func (s *Store) LoadSnapshot(ctx context.Context, venueID string) (floor.Snapshot, int64, error) {
	record, err := s.repo.GetSnapshot(ctx, venueID)
	if err != nil {
		return floor.Snapshot{}, 0, err
	}
	snap, err := Decode(record.Payload)
	if err != nil {
		return floor.Snapshot{}, 0, fmt.Errorf("floorstore: venue %s: %w", venueID, err)
	}
	return snap, record.Version, nil
}

// SaveSnapshot encodes and stores snap, returning the new version.
func (s *Store) SaveSnapshot(ctx context.Context, venueID string, snap floor.Snapshot, expectedVersion int64) (int64, error) {
	payload, err := Encode(snap)
	if err != nil {
		return 0, err
	}
	record, err := s.repo.SaveSnapshot(ctx, persistence.SnapshotRecord{
		VenueID:   venueID,
		Payload:   payload,
		UpdatedAt: s.now().UTC(),
	}, expectedVersion)
	if err != nil {
		return 0, err
	}
	return record.Version, nil
}

// Encode serializes a snapshot with its schema version.
func Encode(snap floor.Snapshot) ([]byte, error) {
	payload, err := json.Marshal(envelope{Schema: schemaVersion, Snapshot: snap})
	if err != nil {
		return nil, fmt.Errorf("floorstore: encode: %w", err)
	}
	return payload, nil
}

// Decode parses a payload produced by Encode.
func Decode(payload []byte) (floor.Snapshot, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return floor.Snapshot{}, fmt.Errorf("floorstore: decode: %w", err)
	}
	if env.Schema != schemaVersion {
		return floor.Snapshot{}, fmt.Errorf("floorstore: unsupported schema %d", env.Schema)
	}
	snap := env.Snapshot
	if snap.Tables == nil {
		snap.Tables = map[string]floor.Table{}
	}
	if snap.Retired == nil {
		snap.Retired = map[string]floor.Table{}
	}
	return snap, nil
}
