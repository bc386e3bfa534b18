package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

type viewFixture struct {
	svc *FloorService
	now time.Time

	occupied, late, stalled, idle string
}

// newViewFixture seats a stalled party at 19:00, then moves the clock to 19:30 and
// seats a walk-in ahead of a 19:35 booking next to a table whose 19:00 party is late.
func newViewFixture(t *testing.T) *viewFixture {
	t.Helper()
	ctx := context.Background()

	f := &viewFixture{now: testNow.Add(-30 * time.Minute)}
	f.svc = NewFloorService(&snapshotStoreStub{}, testSettings(), sequentialIDs("id"), func() time.Time { return f.now })

	f.occupied = mustAddTable(t, f.svc, "T1", 4).ID
	f.late = mustAddTable(t, f.svc, "T2", 2).ID
	f.stalled = mustAddTable(t, f.svc, "T3", 6).ID
	f.idle = mustAddTable(t, f.svc, "T4", 2).ID

	if _, err := f.svc.Occupy(ctx, OccupyParams{TableID: f.stalled}); err != nil {
		t.Fatalf("Occupy(%s) error = %v", f.stalled, err)
	}
	f.now = testNow

	mustReserve(t, f.svc, f.occupied, "19:35", 2)
	mustReserve(t, f.svc, f.late, "19:00", 2)
	if _, err := f.svc.Occupy(ctx, OccupyParams{TableID: f.occupied}); err != nil {
		t.Fatalf("Occupy(%s) error = %v", f.occupied, err)
	}
	return f
}

func TestFloorView_DerivedState(t *testing.T) {
	t.Parallel()

	f := newViewFixture(t)
	views, err := f.svc.FloorView(context.Background(), "", "")
	if err != nil {
		t.Fatalf("FloorView error = %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 tables, got %d", len(views))
	}

	byID := make(map[string]TableView, len(views))
	for _, v := range views {
		byID[v.Table.ID] = v
	}

	occupied := byID[f.occupied]
	if !occupied.UpcomingWarning || occupied.Reserved || occupied.Stalled {
		t.Fatalf("unexpected occupied view: %#v", occupied)
	}

	late := byID[f.late]
	if !late.LateWarning || !late.Reserved || len(late.Upcoming) != 1 {
		t.Fatalf("unexpected late view: %#v", late)
	}

	stalled := byID[f.stalled]
	if !stalled.Stalled || stalled.ElapsedSeconds != 1800 {
		t.Fatalf("unexpected stalled view: %#v", stalled)
	}

	idle := byID[f.idle]
	if idle.Reserved || idle.LateWarning || idle.UpcomingWarning || idle.ElapsedSeconds != 0 {
		t.Fatalf("unexpected idle view: %#v", idle)
	}
}

func TestFloorView_OtherDateHasNoClockWarnings(t *testing.T) {
	t.Parallel()

	f := newViewFixture(t)
	views, err := f.svc.FloorView(context.Background(), "main", "2026-03-02")
	if err != nil {
		t.Fatalf("FloorView error = %v", err)
	}
	for _, v := range views {
		if v.LateWarning || v.UpcomingWarning || v.Reserved {
			t.Fatalf("unexpected warning on another date: %#v", v)
		}
	}

	var vErr *ValidationError
	if _, err := f.svc.FloorView(context.Background(), "", "tomorrow"); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for bad date, got %v", err)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	f := newViewFixture(t)
	stats, err := f.svc.Stats(context.Background(), "", testDate)
	if err != nil {
		t.Fatalf("Stats error = %v", err)
	}

	if stats.TotalTables != 4 || stats.TotalSeats != 14 {
		t.Fatalf("unexpected totals: %#v", stats)
	}
	if stats.OccupiedTablesCount != 2 || stats.OccupiedSeats != 10 {
		t.Fatalf("unexpected occupancy: %#v", stats)
	}
	if stats.ReservedTablesCount != 1 || stats.ReservedSeats != 2 || stats.FreeTablesCount != 1 {
		t.Fatalf("unexpected reserved/free counts: %#v", stats)
	}
	if stats.OccupancyRate != 71 || stats.AvgPartySize != 5 {
		t.Fatalf("unexpected rates: rate=%d avg=%d", stats.OccupancyRate, stats.AvgPartySize)
	}
	if len(stats.Pending) != 2 || stats.Pending[0].Reservation.Time != "19:00" || stats.Pending[0].TableName != "T2" {
		t.Fatalf("unexpected pending list: %#v", stats.Pending)
	}

	empty, err := newTestService(t, &snapshotStoreStub{}, testSettings()).Stats(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Stats on empty floor error = %v", err)
	}
	if empty.OccupancyRate != 0 || empty.AvgPartySize != 0 {
		t.Fatalf("empty floor must not divide by zero: %#v", empty)
	}
}

func TestAvailableTables(t *testing.T) {
	t.Parallel()

	f := newViewFixture(t)
	candidates, err := f.svc.AvailableTables(context.Background(), AvailabilityQuery{Date: testDate, Time: "21:00", Guests: 2})
	if err != nil {
		t.Fatalf("AvailableTables error = %v", err)
	}

	want := []string{f.late, f.idle, f.stalled, f.occupied}
	if len(candidates) != len(want) {
		t.Fatalf("expected %d candidates, got %d", len(want), len(candidates))
	}
	for i, id := range want {
		if candidates[i].Table.ID != id {
			t.Fatalf("candidate %d = %s, want %s", i, candidates[i].Table.ID, id)
		}
	}
	if candidates[0].Fit != FitExact || candidates[2].Fit != FitLoose {
		t.Fatalf("unexpected fits: %s, %s", candidates[0].Fit, candidates[2].Fit)
	}
	if !candidates[3].Conflict || candidates[3].Available() {
		t.Fatalf("expected the 19:35 booking to block T1: %#v", candidates[3])
	}

	tooBig, err := f.svc.AvailableTables(context.Background(), AvailabilityQuery{Date: testDate, Time: "23:00", Guests: 5})
	if err != nil {
		t.Fatalf("AvailableTables error = %v", err)
	}
	if !tooBig[0].Available() || tooBig[0].Table.ID != f.stalled {
		t.Fatalf("only T3 seats five, got %#v", tooBig[0])
	}
	if tooBig[1].Fit != FitTooSmall {
		t.Fatalf("expected remaining tables to be too small, got %s", tooBig[1].Fit)
	}

	var vErr *ValidationError
	if _, err := f.svc.AvailableTables(context.Background(), AvailabilityQuery{Date: testDate, Time: "x", Guests: 0}); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCapacityFit(t *testing.T) {
	t.Parallel()

	cases := map[int]CapacityFit{-1: FitTooSmall, 0: FitExact, 1: FitGood, 2: FitGood, 3: FitLoose}
	for spare, want := range cases {
		if got := capacityFit(spare); got != want {
			t.Errorf("capacityFit(%d) = %s, want %s", spare, got, want)
		}
	}
}
