package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/floor-manager/internal/persistence/floorstore"
	"github.com/example/floor-manager/internal/persistence/sqlite"
	"github.com/example/floor-manager/internal/persistence/sqlite/migration"
)

// SQLiteHarness is a migrated SQLite database in a temporary directory with
// the floor snapshot adapter on top.
type SQLiteHarness struct {
	Storage *sqlite.Storage
	Store   *floorstore.Store
	Path    string
}

// NewSQLiteHarness opens and migrates the database; tb cleanup closes it.
func NewSQLiteHarness(tb testing.TB, clock *Clock) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "floor.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	storage, err := sqlite.Open(migration.DefaultSQLiteConfig(path), logger)
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	tb.Cleanup(func() { _ = storage.Close() })

	if _, err := storage.Migrate(context.Background()); err != nil {
		tb.Fatalf("failed to migrate storage: %v", err)
	}
	return &SQLiteHarness{
		Storage: storage,
		Store:   floorstore.New(storage, clock.NowFunc()),
		Path:    path,
	}
}
