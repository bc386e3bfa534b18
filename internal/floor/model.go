// Package floor models the dining room as an immutable snapshot of tables and
// reservations. Every operation takes a snapshot and returns a new one; the
// input is never mutated.
package floor

import (
	"sort"
	"time"

	"github.com/example/floor-manager/internal/scheduler"
)

// TableStatus is the occupancy state of a table.
type TableStatus string

const (
	StatusFree     TableStatus = "FREE"
	StatusOccupied TableStatus = "OCCUPIED"
)

// Shape is the drawn outline of a table.
type Shape string

const (
	ShapeCircle    Shape = "circle"
	ShapeSquare    Shape = "square"
	ShapeRectangle Shape = "rectangle"
	ShapeOval      Shape = "oval"
)

// Valid reports whether the shape is one the floor plan can render.
func (s Shape) Valid() bool {
	switch s {
	case ShapeCircle, ShapeSquare, ShapeRectangle, ShapeOval:
		return true
	}
	return false
}

// ReservationStatus tracks a booking from intake to departure.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationPending   ReservationStatus = "PENDING"
	ReservationArrived   ReservationStatus = "ARRIVED"
	ReservationCompleted ReservationStatus = "COMPLETED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// Upcoming reports whether the party has not been seated or resolved yet.
func (s ReservationStatus) Upcoming() bool {
	return s == ReservationConfirmed || s == ReservationPending
}

// Blocking reports whether the reservation still holds its table window.
func (s ReservationStatus) Blocking() bool {
	return s != ReservationCancelled && s != ReservationCompleted
}

// Position is the table's location on the floor canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Reservation is a booking held by a table or by the unassigned pool.
type Reservation struct {
	ID        string            `json:"id"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name,omitempty"`
	Guests    int               `json:"guests"`
	Email     string            `json:"email,omitempty"`
	Phone     string            `json:"phone,omitempty"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Notes     string            `json:"notes,omitempty"`
	TableID   string            `json:"table_id,omitempty"`
	TableName string            `json:"table_name,omitempty"`
	// OriginTableID is the leaf table the reservation was booked on. Split uses it
	// to hand reservations back to the restored tables.
	OriginTableID string            `json:"origin_table_id,omitempty"`
	Status        ReservationStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Booking converts the reservation into the scheduler's view of it.
func (r Reservation) Booking() (scheduler.Booking, error) {
	start, err := scheduler.ParseClock(r.Time)
	if err != nil {
		return scheduler.Booking{}, err
	}
	return scheduler.Booking{
		ID:     r.ID,
		Date:   r.Date,
		Start:  start,
		Guests: r.Guests,
		Active: r.Status.Blocking(),
	}, nil
}

// Table is a seatable unit on a floor. Merged tables list the leaf ids they absorbed.
type Table struct {
	ID               string                    `json:"id"`
	Name             string                    `json:"name"`
	Floor            string                    `json:"floor"`
	Position         Position                  `json:"position"`
	Shape            Shape                     `json:"shape"`
	Capacity         int                       `json:"capacity"`
	OriginalCapacity int                       `json:"original_capacity"`
	Status           TableStatus               `json:"status"`
	SeatedAt         *time.Time                `json:"seated_at,omitempty"`
	LastOrderAt      *time.Time                `json:"last_order_at,omitempty"`
	IsExtended       bool                      `json:"is_extended"`
	SubTableIDs      []string                  `json:"sub_table_ids,omitempty"`
	IsTemporary      bool                      `json:"is_temporary"`
	TurnTime         *scheduler.TurnTimeConfig `json:"turn_time,omitempty"`
	Reservations     []Reservation             `json:"reservations"`
}

// TurnTimes returns the table's effective turn-time configuration.
func (t Table) TurnTimes(fallback scheduler.TurnTimeConfig) scheduler.TurnTimeConfig {
	return scheduler.Effective(t.TurnTime, fallback)
}

// IsMerged reports whether the table was produced by a merge.
func (t Table) IsMerged() bool {
	return len(t.SubTableIDs) > 0
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	c := t
	c.SeatedAt = cloneTime(t.SeatedAt)
	c.LastOrderAt = cloneTime(t.LastOrderAt)
	if t.SubTableIDs != nil {
		c.SubTableIDs = append([]string(nil), t.SubTableIDs...)
	}
	if t.TurnTime != nil {
		tt := *t.TurnTime
		c.TurnTime = &tt
	}
	c.Reservations = append([]Reservation(nil), t.Reservations...)
	return c
}

func (t *Table) reservationIndex(id string) int {
	for i, r := range t.Reservations {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// ReservationsOn returns the table's reservations for the date, ordered by time.
func (t Table) ReservationsOn(date string) []Reservation {
	var out []Reservation
	for _, r := range t.Reservations {
		if r.Date == date {
			out = append(out, r)
		}
	}
	sortByTime(out)
	return out
}

// SeatedReservation returns the ARRIVED reservation, if any.
func (t Table) SeatedReservation() (Reservation, bool) {
	for _, r := range t.Reservations {
		if r.Status == ReservationArrived {
			return r, true
		}
	}
	return Reservation{}, false
}

// Snapshot is the full floor state: live tables in display order, leaf records
// absorbed by merges, and reservations not yet assigned to a table.
type Snapshot struct {
	Tables     map[string]Table `json:"tables"`
	Order      []string         `json:"order"`
	Retired    map[string]Table `json:"retired"`
	Unassigned []Reservation    `json:"unassigned"`
}

// NewSnapshot returns an empty floor.
func NewSnapshot(tables ...Table) Snapshot {
	s := Snapshot{Tables: map[string]Table{}, Retired: map[string]Table{}}
	for _, t := range tables {
		s.Tables[t.ID] = t.Clone()
		s.Order = append(s.Order, t.ID)
	}
	return s
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := Snapshot{
		Tables:     make(map[string]Table, len(s.Tables)),
		Order:      append([]string(nil), s.Order...),
		Retired:    make(map[string]Table, len(s.Retired)),
		Unassigned: append([]Reservation(nil), s.Unassigned...),
	}
	for id, t := range s.Tables {
		c.Tables[id] = t.Clone()
	}
	for id, t := range s.Retired {
		c.Retired[id] = t.Clone()
	}
	return c
}

// Table looks up a live table.
func (s Snapshot) Table(id string) (Table, bool) {
	t, ok := s.Tables[id]
	return t, ok
}

// List returns the live tables in display order.
func (s Snapshot) List() []Table {
	out := make([]Table, 0, len(s.Order))
	for _, id := range s.Order {
		if t, ok := s.Tables[id]; ok {
			out = append(out, t)
		}
	}
	return out
}

// OnFloor returns the live tables of one floor in display order. An empty floor
// name returns every table.
func (s Snapshot) OnFloor(floor string) []Table {
	if floor == "" {
		return s.List()
	}
	var out []Table
	for _, t := range s.List() {
		if t.Floor == floor {
			out = append(out, t)
		}
	}
	return out
}

// FindReservation locates a reservation. The returned table id is empty when the
// reservation sits in the unassigned pool.
func (s Snapshot) FindReservation(id string) (string, Reservation, bool) {
	for _, tid := range s.Order {
		t := s.Tables[tid]
		if i := t.reservationIndex(id); i >= 0 {
			return tid, t.Reservations[i], true
		}
	}
	for _, r := range s.Unassigned {
		if r.ID == id {
			return "", r, true
		}
	}
	return "", Reservation{}, false
}

func (s *Snapshot) put(t Table) {
	s.Tables[t.ID] = t
}

func (s *Snapshot) removeFromOrder(id string) int {
	for i, oid := range s.Order {
		if oid == id {
			s.Order = append(s.Order[:i], s.Order[i+1:]...)
			return i
		}
	}
	return -1
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func sortByTime(rs []Reservation) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Date != rs[j].Date {
			return rs[i].Date < rs[j].Date
		}
		return rs[i].Time < rs[j].Time
	})
}
