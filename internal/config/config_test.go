package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"FLOOR_HTTP_PORT", "FLOOR_STORAGE", "FLOOR_SQLITE_DSN", "FLOOR_VENUE_ID",
		"FLOOR_TIMEZONE", "FLOOR_CORS_ORIGINS", "FLOOR_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "floor.db", cfg.SQLiteDSN)
	assert.Equal(t, "default", cfg.VenueID)
	assert.Equal(t, 90, cfg.TurnTimeSmall)
	assert.Equal(t, 120, cfg.TurnTimeMedium)
	assert.Equal(t, 150, cfg.TurnTimeLarge)
	assert.Equal(t, time.Duration(0), cfg.WalkInLookahead)
	assert.Equal(t, 10*time.Minute, cfg.UpcomingWarning)
	assert.Equal(t, 20*time.Minute, cfg.StallThreshold)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FLOOR_HTTP_PORT", "9090")
	t.Setenv("FLOOR_STORAGE", " Memory ")
	t.Setenv("FLOOR_VENUE_ID", "bistro")
	t.Setenv("FLOOR_TIMEZONE", "Europe/Rome")
	t.Setenv("FLOOR_TURN_TIME_SMALL", "60")
	t.Setenv("FLOOR_WALKIN_LOOKAHEAD", "15m")
	t.Setenv("FLOOR_CORS_ORIGINS", "http://localhost:3000,https://floor.example.com")
	t.Setenv("FLOOR_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "bistro", cfg.VenueID)
	assert.Equal(t, "Europe/Rome", cfg.Location().String())
	assert.Equal(t, 60, cfg.TurnTimeSmall)
	assert.Equal(t, 15*time.Minute, cfg.WalkInLookahead)
	assert.Equal(t, []string{"http://localhost:3000", "https://floor.example.com"}, cfg.CORSOrigins)
}

func TestLoad_ReportsInvalidValues(t *testing.T) {
	t.Setenv("FLOOR_HTTP_PORT", "0")
	t.Setenv("FLOOR_STORAGE", "postgres")
	t.Setenv("FLOOR_TIMEZONE", "Mars/Olympus")
	t.Setenv("FLOOR_TURN_TIME_MEDIUM", "30")
	t.Setenv("FLOOR_LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
	for _, key := range []string{"FLOOR_HTTP_PORT", "FLOOR_STORAGE", "FLOOR_TIMEZONE", "FLOOR_TURN_TIME_SMALL/MEDIUM/LARGE", "FLOOR_LOG_LEVEL"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestLoad_RejectsUnparseableValues(t *testing.T) {
	t.Setenv("FLOOR_HTTP_PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
