package testfixtures

import (
	"fmt"
	"sync/atomic"

	"github.com/example/floor-manager/internal/floor"
)

var (
	tableCounter       uint64
	reservationCounter uint64
)

// TableOption configures a table fixture.
type TableOption func(*floor.Table)

// NewTable returns a free square table named after its generated id.
func NewTable(opts ...TableOption) floor.Table {
	idx := atomic.AddUint64(&tableCounter, 1)
	t := floor.Table{
		ID:               fmt.Sprintf("table-%03d", idx),
		Name:             fmt.Sprintf("T%d", idx),
		Floor:            "main",
		Shape:            floor.ShapeSquare,
		Capacity:         4,
		OriginalCapacity: 4,
		Status:           floor.StatusFree,
	}
	for _, opt := range opts {
		opt(&t)
	}
	for i := range t.Reservations {
		t.Reservations[i].TableID = t.ID
		t.Reservations[i].TableName = t.Name
		t.Reservations[i].OriginTableID = t.ID
	}
	return t
}

func WithTableID(id string) TableOption {
	return func(t *floor.Table) { t.ID = id }
}

func WithTableName(name string) TableOption {
	return func(t *floor.Table) { t.Name = name }
}

// WithCapacity sets both the current and the original seat count.
func WithCapacity(seats int) TableOption {
	return func(t *floor.Table) {
		t.Capacity = seats
		t.OriginalCapacity = seats
	}
}

func WithFloor(name string) TableOption {
	return func(t *floor.Table) { t.Floor = name }
}

// Occupied marks the table seated at the clock's current time.
func Occupied(clock *Clock) TableOption {
	return func(t *floor.Table) {
		seated := clock.Now()
		t.Status = floor.StatusOccupied
		t.SeatedAt = &seated
	}
}

func WithReservations(rs ...floor.Reservation) TableOption {
	return func(t *floor.Table) { t.Reservations = append(t.Reservations, rs...) }
}

// ReservationOption configures a reservation fixture.
type ReservationOption func(*floor.Reservation)

// NewReservation returns a confirmed two-top on ServiceDate at 19:00.
func NewReservation(opts ...ReservationOption) floor.Reservation {
	idx := atomic.AddUint64(&reservationCounter, 1)
	created := referenceTime
	r := floor.Reservation{
		ID:        fmt.Sprintf("reservation-%03d", idx),
		FirstName: fmt.Sprintf("Guest%d", idx),
		Guests:    2,
		Date:      ServiceDate,
		Time:      "19:00",
		Status:    floor.ReservationConfirmed,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func WithReservationID(id string) ReservationOption {
	return func(r *floor.Reservation) { r.ID = id }
}

func At(hhmm string) ReservationOption {
	return func(r *floor.Reservation) { r.Time = hhmm }
}

func OnDate(date string) ReservationOption {
	return func(r *floor.Reservation) { r.Date = date }
}

func Party(guests int) ReservationOption {
	return func(r *floor.Reservation) { r.Guests = guests }
}

func WithStatus(status floor.ReservationStatus) ReservationOption {
	return func(r *floor.Reservation) { r.Status = status }
}

// NewFloor builds a snapshot holding the tables in order and the given pool.
func NewFloor(tables []floor.Table, unassigned ...floor.Reservation) floor.Snapshot {
	snap := floor.NewSnapshot(tables...)
	for _, r := range unassigned {
		r.TableID, r.TableName, r.OriginTableID = "", "", ""
		snap.Unassigned = append(snap.Unassigned, r)
	}
	return snap
}
