package floor

import (
	"testing"
	"time"

	"github.com/example/floor-manager/internal/scheduler"
)

var (
	testNow = time.Date(2026, 3, 1, 19, 30, 0, 0, time.UTC)
	testCfg = scheduler.DefaultTurnTimeConfig

	testCfgShort = scheduler.TurnTimeConfig{Small: 45, Medium: 60, Large: 90}
)

func newTable(id, name string, capacity int, x, y float64) Table {
	return Table{
		ID:               id,
		Name:             name,
		Floor:            "main",
		Position:         Position{X: x, Y: y},
		Shape:            ShapeSquare,
		Capacity:         capacity,
		OriginalCapacity: capacity,
		Status:           StatusFree,
	}
}

func newReservation(id, date, clock string, guests int) Reservation {
	return Reservation{
		ID:        id,
		FirstName: "Guest " + id,
		Guests:    guests,
		Date:      date,
		Time:      clock,
		Status:    ReservationConfirmed,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
}

func mustAdd(t *testing.T, s Snapshot, tableID string, r Reservation) Snapshot {
	t.Helper()
	next, _, err := AddReservation(s, tableID, r, false, testCfg)
	if err != nil {
		t.Fatalf("AddReservation(%s, %s) error = %v", tableID, r.ID, err)
	}
	return next
}
