package floorstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/floor-manager/internal/floor"
	"github.com/example/floor-manager/internal/persistence"
	"github.com/example/floor-manager/internal/persistence/memory"
	"github.com/example/floor-manager/internal/scheduler"
)

func TestStorePreservesSnapshot(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)
	store := New(memory.New(), func() time.Time { return now })

	seated := now.Add(-40 * time.Minute)
	snap := floor.NewSnapshot(floor.Table{
		ID: "t1", Name: "T1", Floor: "main", Shape: floor.ShapeCircle, Capacity: 4, OriginalCapacity: 4,
		Status: floor.StatusOccupied, SeatedAt: &seated,
		TurnTime: &scheduler.TurnTimeConfig{Small: 60, Medium: 90, Large: 120},
		Reservations: []floor.Reservation{{
			ID: "r1", FirstName: "Ada", Guests: 2, Date: "2026-03-01", Time: "21:00",
			Status: floor.ReservationConfirmed, TableID: "t1",
		}},
	})
	snap.Unassigned = []floor.Reservation{{ID: "r2", FirstName: "Lin", Guests: 3, Date: "2026-03-02", Time: "20:00", Status: floor.ReservationPending}}

	_, _, err := store.LoadSnapshot(ctx, "bistro")
	require.ErrorIs(t, err, persistence.ErrNotFound)

	version, err := store.SaveSnapshot(ctx, "bistro", snap, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	loaded, version, err := store.LoadSnapshot(ctx, "bistro")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, []string{"t1"}, loaded.Order)
	assert.NotNil(t, loaded.Retired)

	table, ok := loaded.Table("t1")
	require.True(t, ok)
	assert.Equal(t, floor.StatusOccupied, table.Status)
	require.NotNil(t, table.SeatedAt)
	assert.True(t, table.SeatedAt.Equal(seated))
	assert.Equal(t, 60, table.TurnTime.Small)
	require.Len(t, table.Reservations, 1)
	assert.Equal(t, "Ada", table.Reservations[0].FirstName)
	require.Len(t, loaded.Unassigned, 1)
	assert.Equal(t, "r2", loaded.Unassigned[0].ID)

	_, err = store.SaveSnapshot(ctx, "bistro", loaded, 0)
	assert.ErrorIs(t, err, persistence.ErrVersionConflict)
}

func TestDecodeRejectsUnknownSchema(t *testing.T) {
	_, err := Decode([]byte(`{"schema":7,"snapshot":{}}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)

	snap, err := Decode([]byte(`{"schema":1,"snapshot":{}}`))
	require.NoError(t, err)
	assert.NotNil(t, snap.Tables)
}
