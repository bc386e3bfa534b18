package persistence

import "context"

// SnapshotRepository stores one snapshot per venue with optimistic versioning.
type SnapshotRepository interface {
	// GetSnapshot returns ErrNotFound when the venue was never saved.
	GetSnapshot(ctx context.Context, venueID string) (SnapshotRecord, error)
	// SaveSnapshot writes the record if the stored version still equals
	// expectedVersion (zero for a venue that was never saved) and returns the
	// record with its new version. A stale expectedVersion yields ErrVersionConflict.
	SaveSnapshot(ctx context.Context, record SnapshotRecord, expectedVersion int64) (SnapshotRecord, error)
	// ListVenues returns the ids of all stored venues in ascending order.
	ListVenues(ctx context.Context) ([]string, error)
}
