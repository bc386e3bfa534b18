package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // FLOOR_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/caarlos0/env/v11"
)

// Storage backends accepted by FLOOR_STORAGE.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Config captures environment driven configuration values for the floor manager.
type Config struct {
	HTTPPort  int    `env:"FLOOR_HTTP_PORT"  envDefault:"8080"`
	Storage   string `env:"FLOOR_STORAGE"    envDefault:"sqlite"`
	SQLiteDSN string `env:"FLOOR_SQLITE_DSN" envDefault:"floor.db"`
	VenueID   string `env:"FLOOR_VENUE_ID"   envDefault:"default"`
	Timezone  string `env:"FLOOR_TIMEZONE"   envDefault:"UTC"`

	TurnTimeSmall  int `env:"FLOOR_TURN_TIME_SMALL"  envDefault:"90"`
	TurnTimeMedium int `env:"FLOOR_TURN_TIME_MEDIUM" envDefault:"120"`
	TurnTimeLarge  int `env:"FLOOR_TURN_TIME_LARGE"  envDefault:"150"`

	WalkInLookahead  time.Duration `env:"FLOOR_WALKIN_LOOKAHEAD"   envDefault:"0m"`
	UpcomingWarning  time.Duration `env:"FLOOR_UPCOMING_WARNING"   envDefault:"10m"`
	StallThreshold   time.Duration `env:"FLOOR_STALL_THRESHOLD"    envDefault:"20m"`
	SnapshotCacheTTL time.Duration `env:"FLOOR_SNAPSHOT_CACHE_TTL" envDefault:"2s"`

	CORSOrigins []string `env:"FLOOR_CORS_ORIGINS" envSeparator:","`
	LogLevel    string   `env:"FLOOR_LOG_LEVEL"    envDefault:"info"`
}

// Load parses configuration values from the current process environment and
// validates them. Every invalid key is reported in a single error.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	cfg.VenueID = strings.TrimSpace(cfg.VenueID)
	cfg.SQLiteDSN = strings.TrimSpace(cfg.SQLiteDSN)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c Config) Validate() error {
	invalid := make([]string, 0, 4)

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		invalid = append(invalid, "FLOOR_HTTP_PORT")
	}
	switch c.Storage {
	case StorageSQLite:
		if c.SQLiteDSN == "" {
			invalid = append(invalid, "FLOOR_SQLITE_DSN")
		}
	case StorageMemory:
	default:
		invalid = append(invalid, "FLOOR_STORAGE")
	}
	if c.VenueID == "" {
		invalid = append(invalid, "FLOOR_VENUE_ID")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		invalid = append(invalid, "FLOOR_TIMEZONE")
	}
	if c.TurnTimeSmall <= 0 || c.TurnTimeMedium < c.TurnTimeSmall || c.TurnTimeLarge < c.TurnTimeMedium {
		invalid = append(invalid, "FLOOR_TURN_TIME_SMALL/MEDIUM/LARGE")
	}
	if c.WalkInLookahead < 0 {
		invalid = append(invalid, "FLOOR_WALKIN_LOOKAHEAD")
	}
	if c.UpcomingWarning < 0 {
		invalid = append(invalid, "FLOOR_UPCOMING_WARNING")
	}
	if c.StallThreshold < 0 {
		invalid = append(invalid, "FLOOR_STALL_THRESHOLD")
	}
	if c.SnapshotCacheTTL < 0 {
		invalid = append(invalid, "FLOOR_SNAPSHOT_CACHE_TTL")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "FLOOR_LOG_LEVEL")
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid environment values: %s", strings.Join(invalid, ", "))
	}
	return nil
}

// Location resolves the configured timezone.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
