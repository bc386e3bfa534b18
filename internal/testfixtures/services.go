package testfixtures

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/floor-manager/internal/application"
	"github.com/example/floor-manager/internal/floor"
	"github.com/example/floor-manager/internal/persistence/floorstore"
	"github.com/example/floor-manager/internal/persistence/memory"
)

// ServiceFactory builds floor services wired to a deterministic clock and ids.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Settings    application.FloorSettings
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory uses default settings with the snapshot cache disabled so
// every call observes the store.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	settings := application.DefaultFloorSettings()
	settings.SnapshotCacheTTL = 0
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Settings:    settings,
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

func WithClock(clock *Clock) ServiceFactoryOption {
	return func(f *ServiceFactory) { f.Clock = clock }
}

func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(f *ServiceFactory) { f.IDGenerator = generator }
}

func WithSettings(settings application.FloorSettings) ServiceFactoryOption {
	return func(f *ServiceFactory) { f.Settings = settings }
}

func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(f *ServiceFactory) { f.Logger = logger }
}

// NewFloorService builds a service over store.
func (f *ServiceFactory) NewFloorService(store application.SnapshotStore) *application.FloorService {
	return application.NewFloorServiceWithLogger(store, f.Settings, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), f.Logger)
}

// NewMemoryStore returns a snapshot store over fresh in-memory storage.
func (f *ServiceFactory) NewMemoryStore() *floorstore.Store {
	return floorstore.New(memory.New(), f.Clock.NowFunc())
}

// Seed stores snap as the first version of the factory venue's floor.
func (f *ServiceFactory) Seed(ctx context.Context, store application.SnapshotStore, snap floor.Snapshot) error {
	_, err := store.SaveSnapshot(ctx, f.Settings.VenueID, snap, 0)
	return err
}
