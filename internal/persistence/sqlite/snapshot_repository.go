package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/floor-manager/internal/persistence"
)

const (
	selectSnapshotSQL = `SELECT venue_id, version, payload, updated_at FROM floor_snapshots WHERE venue_id = ?`
	selectVersionSQL  = `SELECT version FROM floor_snapshots WHERE venue_id = ?`
	insertSnapshotSQL = `INSERT INTO floor_snapshots (venue_id, version, payload, updated_at) VALUES (?, ?, ?, ?)`
	updateSnapshotSQL = `UPDATE floor_snapshots SET version = ?, payload = ?, updated_at = ? WHERE venue_id = ? AND version = ?`
	listVenuesSQL     = `SELECT venue_id FROM floor_snapshots ORDER BY venue_id`
)

// GetSnapshot retrieves the snapshot of a venue.
func (s *Storage) GetSnapshot(ctx context.Context, venueID string) (persistence.SnapshotRecord, error) {
	var (
		record    persistence.SnapshotRecord
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, selectSnapshotSQL, venueID).
		Scan(&record.VenueID, &record.Version, &record.Payload, &updatedAt)
	if err != nil {
		return persistence.SnapshotRecord{}, mapError(err)
	}
	record.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return persistence.SnapshotRecord{}, fmt.Errorf("sqlite: parse updated_at for %s: %w", venueID, err)
	}
	return record, nil
}

// SaveSnapshot inserts or updates the snapshot of a venue when the stored version
// still equals expectedVersion.
func (s *Storage) SaveSnapshot(ctx context.Context, record persistence.SnapshotRecord, expectedVersion int64) (persistence.SnapshotRecord, error) {
	if record.VenueID == "" {
		return persistence.SnapshotRecord{}, fmt.Errorf("sqlite: venue id is required")
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = time.Now().UTC()
	}
	record.Version = expectedVersion + 1
	updatedAt := record.UpdatedAt.UTC().Format(time.RFC3339Nano)

	err := s.retry.WithRetry(ctx, func() error {
		return withTransaction(ctx, s.db, func(tx *sql.Tx) error {
			var current int64
			err := tx.QueryRowContext(ctx, selectVersionSQL, record.VenueID).Scan(&current)
			switch {
			case err == sql.ErrNoRows:
				if expectedVersion != 0 {
					return persistence.ErrVersionConflict
				}
				_, err = tx.ExecContext(ctx, insertSnapshotSQL, record.VenueID, record.Version, record.Payload, updatedAt)
				return err
			case err != nil:
				return err
			case current != expectedVersion:
				return persistence.ErrVersionConflict
			}

			res, err := tx.ExecContext(ctx, updateSnapshotSQL, record.Version, record.Payload, updatedAt, record.VenueID, expectedVersion)
			if err != nil {
				return err
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if affected != 1 {
				return persistence.ErrVersionConflict
			}
			return nil
		})
	})
	if err != nil {
		s.logger.Debug("snapshot save rejected",
			"venue_id", record.VenueID,
			"expected_version", expectedVersion,
			"error", err,
		)
		return persistence.SnapshotRecord{}, err
	}
	return record, nil
}

// ListVenues returns the stored venue ids.
func (s *Storage) ListVenues(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, listVenuesSQL)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var venues []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		venues = append(venues, id)
	}
	return venues, rows.Err()
}
