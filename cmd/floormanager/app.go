package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/example/floor-manager/internal/application"
	"github.com/example/floor-manager/internal/config"
	httptransport "github.com/example/floor-manager/internal/http"
	"github.com/example/floor-manager/internal/persistence"
	"github.com/example/floor-manager/internal/persistence/floorstore"
	"github.com/example/floor-manager/internal/persistence/memory"
	"github.com/example/floor-manager/internal/persistence/sqlite"
	"github.com/example/floor-manager/internal/persistence/sqlite/migration"
	"github.com/example/floor-manager/internal/scheduler"
)

type repository interface {
	persistence.SnapshotRepository
	io.Closer
}

// app bundles the wired service graph for one venue.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	repo    repository
	service *application.FloorService
}

func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		logger.WarnContext(ctx, "using in-memory storage; the floor is lost on restart")
		return memory.New(), nil
	case config.StorageSQLite:
		storage, err := openSQLite(cfg, logger)
		if err != nil {
			return nil, err
		}
		applied, err := storage.Migrate(ctx)
		if err != nil {
			storage.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		logger.InfoContext(ctx, "storage ready", "dsn", cfg.SQLiteDSN, "migrations_applied", applied)
		return storage, nil
	default:
		return nil, fmt.Errorf("unsupported storage %q", cfg.Storage)
	}
}

func openSQLite(cfg config.Config, logger *slog.Logger) (*sqlite.Storage, error) {
	storage, err := sqlite.Open(migration.DefaultSQLiteConfig(cfg.SQLiteDSN), logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return storage, nil
}

func floorSettings(cfg config.Config) application.FloorSettings {
	return application.FloorSettings{
		VenueID: cfg.VenueID,
		TurnTimes: scheduler.TurnTimeConfig{
			Small:  cfg.TurnTimeSmall,
			Medium: cfg.TurnTimeMedium,
			Large:  cfg.TurnTimeLarge,
		},
		WalkInLookahead:  cfg.WalkInLookahead,
		UpcomingWarning:  cfg.UpcomingWarning,
		StallThreshold:   cfg.StallThreshold,
		SnapshotCacheTTL: cfg.SnapshotCacheTTL,
		Location:         cfg.Location(),
	}
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, now func() time.Time) (*app, error) {
	if now == nil {
		now = time.Now
	}
	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	store := floorstore.New(repo, now)
	service := application.NewFloorServiceWithLogger(store, floorSettings(cfg), uuid.NewString, now, logger)
	return &app{cfg: cfg, logger: logger, repo: repo, service: service}, nil
}

func (a *app) handler() http.Handler {
	return httptransport.NewRouter(httptransport.RouterConfig{
		Floor:        httptransport.NewFloorHandler(a.service, a.logger),
		Tables:       httptransport.NewTableHandler(a.service, a.logger),
		Reservations: httptransport.NewReservationHandler(a.service, a.logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.CORS(a.cfg.CORSOrigins),
			httptransport.RequestLogger(a.logger),
		},
	})
}

func (a *app) Close() error {
	return a.repo.Close()
}
