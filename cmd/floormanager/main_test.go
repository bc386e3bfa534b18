package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/floor-manager/internal/config"
)

// isolateEnv clears FLOOR_* variables so defaults apply and points the dotenv
// lookup at a file that does not exist.
func isolateEnv(t *testing.T) []string {
	t.Helper()
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "FLOOR_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	return []string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "floormanager dev")
}

func TestMigrateCommands(t *testing.T) {
	flags := isolateEnv(t)
	t.Setenv("FLOOR_SQLITE_DSN", filepath.Join(t.TempDir(), "floor.db"))

	out, err := run(t, append([]string{"migrate", "status"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "current version: none")
	assert.Contains(t, out, "pending: 1")

	out, err = run(t, append([]string{"migrate"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "applied 1 migration(s)")

	out, err = run(t, append([]string{"migrate", "status"}, flags...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "current version: 001")
	assert.Contains(t, out, "pending: 0")
}

func TestMigrateRejectsMemoryStorage(t *testing.T) {
	flags := isolateEnv(t)
	t.Setenv("FLOOR_STORAGE", "memory")

	_, err := run(t, append([]string{"migrate"}, flags...)...)
	assert.ErrorIs(t, err, errMigrateNeedsSQLite)
}

func TestEnvFileIsLoaded(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "floor.env")
	dsn := filepath.Join(dir, "from-env-file.db")
	require.NoError(t, os.WriteFile(envFile, []byte("FLOOR_SQLITE_DSN="+dsn+"\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("FLOOR_SQLITE_DSN") })

	_, err := run(t, "migrate", "--env-file", envFile)
	require.NoError(t, err)
	_, err = os.Stat(dsn)
	assert.NoError(t, err)
}

func TestInvalidConfigurationFails(t *testing.T) {
	flags := isolateEnv(t)
	t.Setenv("FLOOR_STORAGE", "postgres")

	_, err := run(t, append([]string{"venues"}, flags...)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLOOR_STORAGE")
}

func TestAppServesFloorAndPersistsVenue(t *testing.T) {
	cfg := config.Config{
		HTTPPort:        8080,
		Storage:         config.StorageSQLite,
		SQLiteDSN:       filepath.Join(t.TempDir(), "floor.db"),
		VenueID:         "bistro",
		Timezone:        "UTC",
		TurnTimeSmall:   60,
		TurnTimeMedium:  90,
		TurnTimeLarge:   120,
		UpcomingWarning: 10 * time.Minute,
		StallThreshold:  20 * time.Minute,
		LogLevel:        "info",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC) }

	a, err := newApp(context.Background(), cfg, logger, now)
	require.NoError(t, err)
	defer a.Close()

	h := a.handler()
	req := httptest.NewRequest(http.MethodPost, "/tables", strings.NewReader(`{"name":"T1","capacity":4}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/turn-time?guests=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"minutes":60`)

	venues, err := a.repo.ListVenues(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bistro"}, venues)
}

func TestFloorSettingsFromConfig(t *testing.T) {
	cfg := config.Config{
		VenueID:          "bistro",
		Timezone:         "Europe/Paris",
		TurnTimeSmall:    60,
		TurnTimeMedium:   90,
		TurnTimeLarge:    120,
		WalkInLookahead:  15 * time.Minute,
		SnapshotCacheTTL: time.Second,
	}
	settings := floorSettings(cfg)
	assert.Equal(t, "bistro", settings.VenueID)
	assert.Equal(t, 90, settings.TurnTimes.Medium)
	assert.Equal(t, 15*time.Minute, settings.WalkInLookahead)
	assert.Equal(t, time.Second, settings.SnapshotCacheTTL)
	assert.Equal(t, "Europe/Paris", settings.Location.String())
}
