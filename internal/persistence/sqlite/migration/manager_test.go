package migration

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerAppliesPendingMigrationsOnce(t *testing.T) {
	t.Parallel()

	db, err := Open(InMemoryTestSQLiteConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	files := fstest.MapFS{
		"m/001_create.sql": {Data: []byte("CREATE TABLE items (id TEXT PRIMARY KEY);")},
		"m/002_seed.sql":   {Data: []byte("INSERT INTO items (id) VALUES ('a');\nINSERT INTO items (id) VALUES ('b');")},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := NewManager(NewScanner(files, "m"), NewSQLiteExecutor(db), logger)
	ctx := context.Background()

	applied, err := manager.RunMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	applied, err = manager.RunMigrations(ctx)
	require.NoError(t, err)
	assert.Zero(t, applied)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&count))
	assert.Equal(t, 2, count)

	status, err := manager.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, "002", status.CurrentVersion)
	assert.Zero(t, status.PendingCount)
}

func TestManagerRollsBackFailedMigration(t *testing.T) {
	t.Parallel()

	db, err := Open(InMemoryTestSQLiteConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	files := fstest.MapFS{
		"m/001_broken.sql": {Data: []byte("CREATE TABLE ok (id TEXT);\nCREATE TABLE;")},
	}
	manager := NewManager(NewScanner(files, "m"), NewSQLiteExecutor(db), slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	_, err = manager.RunMigrations(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMigrationFailed))

	status, err := manager.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.PendingCount)

	var name string
	err = db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='ok'").Scan(&name)
	assert.Error(t, err, "partial migration must be rolled back")
}

func TestManagerDetectsEditedMigration(t *testing.T) {
	t.Parallel()

	db, err := Open(InMemoryTestSQLiteConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	original := fstest.MapFS{"m/001_create.sql": {Data: []byte("CREATE TABLE items (id TEXT);")}}
	_, err = NewManager(NewScanner(original, "m"), NewSQLiteExecutor(db), logger).RunMigrations(ctx)
	require.NoError(t, err)

	edited := fstest.MapFS{"m/001_create.sql": {Data: []byte("CREATE TABLE items (id TEXT, extra TEXT);")}}
	_, err = NewManager(NewScanner(edited, "m"), NewSQLiteExecutor(db), logger).Status(ctx)
	assert.True(t, errors.Is(err, ErrChecksumMismatch), "got %v", err)
}

func TestSQLiteConfigValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultSQLiteConfig("/tmp/floor.db").Validate())
	assert.Error(t, SQLiteConfig{}.Validate())
	assert.Error(t, SQLiteConfig{DSN: "x.db", JournalMode: "BOGUS"}.Validate())
	assert.Error(t, SQLiteConfig{DSN: "x.db", Synchronous: "SOMETIMES"}.Validate())
}
