// Package sqlite stores floor snapshots in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/example/floor-manager/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Storage is a SQLite-backed persistence.SnapshotRepository.
type Storage struct {
	db     *sql.DB
	retry  *RetryHelper
	logger *slog.Logger
}

// Open connects to the database described by cfg. Call Migrate before use.
func Open(cfg migration.SQLiteConfig, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := migration.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	return &Storage{
		db:     db,
		retry:  NewRetryHelper(DefaultRetryConfig()),
		logger: logger.With(slog.String("component", "sqlite")),
	}, nil
}

// Close closes the underlying database.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies pending schema migrations and returns how many ran.
func (s *Storage) Migrate(ctx context.Context) (int, error) {
	applied, err := s.migrations().RunMigrations(ctx)
	if err != nil {
		return applied, fmt.Errorf("sqlite: migrate: %w", err)
	}
	return applied, nil
}

// MigrationStatus reports applied and pending migrations.
func (s *Storage) MigrationStatus(ctx context.Context) (*migration.Status, error) {
	return s.migrations().Status(ctx)
}

func (s *Storage) migrations() *migration.Manager {
	return migration.NewManager(
		migration.NewScanner(migrationFiles, "migrations"),
		migration.NewSQLiteExecutor(s.db),
		s.logger,
	)
}
