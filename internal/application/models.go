package application

import (
	"time"

	"github.com/example/floor-manager/internal/floor"
	"github.com/example/floor-manager/internal/scheduler"
)

// FloorSettings tunes scheduling policy for one venue.
type FloorSettings struct {
	VenueID   string
	TurnTimes scheduler.TurnTimeConfig
	// WalkInLookahead extends the walk-in interval used for imminent reservation checks.
	WalkInLookahead time.Duration
	// UpcomingWarning flags occupied tables whose next booking starts within this window.
	UpcomingWarning time.Duration
	// StallThreshold flags occupied tables without an order for this long.
	StallThreshold time.Duration
	// SnapshotCacheTTL keeps the last loaded floor in memory; zero disables caching.
	SnapshotCacheTTL time.Duration
	Location         *time.Location
}

// DefaultFloorSettings mirrors the defaults exposed through configuration.
func DefaultFloorSettings() FloorSettings {
	return FloorSettings{
		VenueID:         "default",
		TurnTimes:       scheduler.DefaultTurnTimeConfig,
		UpcomingWarning: 10 * time.Minute,
		StallThreshold:  20 * time.Minute,
		// Two seconds covers bursts of view polling.
		SnapshotCacheTTL: 2 * time.Second,
		Location:         time.UTC,
	}
}

// ReservationInput carries user supplied reservation fields.
type ReservationInput struct {
	FirstName string
	LastName  string
	Guests    int
	Email     string
	Phone     string
	Date      string
	Time      string
	Notes     string
	Status    floor.ReservationStatus
}

// AddReservationParams books a reservation. An empty TableID targets the unassigned pool.
type AddReservationParams struct {
	TableID string
	Input   ReservationInput
	Force   bool
}

// UpdateReservationParams edits an existing reservation in place.
type UpdateReservationParams struct {
	ReservationID string
	Input         ReservationInput
	Force         bool
}

// MoveReservationParams relocates a reservation. An empty FromTableID names the unassigned pool.
type MoveReservationParams struct {
	ReservationID string
	FromTableID   string
	ToTableID     string
	Force         bool
}

// MergeParams names the tables to combine; the target keeps its display slot.
type MergeParams struct {
	TargetID  string
	SourceIDs []string
}

// MergeAndReserveParams merges tables and books a party on the result in one step.
type MergeAndReserveParams struct {
	TableIDs []string
	Input    ReservationInput
	Force    bool
}

// OccupyParams seats a party. A ReservationID checks that booking in; otherwise the
// party is a walk-in, which must be acknowledged when bookings are imminent.
type OccupyParams struct {
	TableID           string
	ReservationID     string
	AcknowledgeWalkIn bool
}

// AddTableParams describes a table placed on the floor.
type AddTableParams struct {
	Name      string
	Floor     string
	Position  floor.Position
	Shape     floor.Shape
	Capacity  int
	Temporary bool
	TurnTime  *scheduler.TurnTimeConfig
}

// UpdateTableParams carries optional table edits applied in order: rename, capacity
// delta, make permanent.
type UpdateTableParams struct {
	TableID       string
	Name          *string
	CapacityDelta int
	MakePermanent bool
}

// ConflictQuery asks whether two parties would collide on a table.
type ConflictQuery struct {
	TimeA   string
	GuestsA int
	TimeB   string
	GuestsB int
	TableID string
}

// AvailabilityQuery describes the booking a table is being chosen for.
type AvailabilityQuery struct {
	Date                 string
	Time                 string
	Guests               int
	Floor                string
	ExcludeReservationID string
}

// CapacityFit grades how well a table's size matches a party.
type CapacityFit string

const (
	FitExact    CapacityFit = "exact"
	FitGood     CapacityFit = "good"
	FitLoose    CapacityFit = "loose"
	FitTooSmall CapacityFit = "too_small"
)

// TableCandidate is a table evaluated for a prospective booking.
type TableCandidate struct {
	Table     floor.Table
	Conflict  bool
	With      []string
	Fit       CapacityFit
	SpareSeat int
}

// Available reports whether the table can take the booking without an override.
func (c TableCandidate) Available() bool {
	return !c.Conflict && c.Fit != FitTooSmall
}

// TableView is a table with display state derived from the current time.
type TableView struct {
	Table           floor.Table
	ElapsedSeconds  int64
	Reserved        bool
	Upcoming        []floor.Reservation
	UpcomingWarning bool
	LateWarning     bool
	Stalled         bool
}

// PendingReservation is an unresolved booking listed in floor statistics.
type PendingReservation struct {
	Reservation floor.Reservation
	TableName   string
}

// FloorStats summarises the floor for a date.
type FloorStats struct {
	TotalTables         int
	TotalSeats          int
	OccupiedSeats       int
	ReservedSeats       int
	FreeTablesCount     int
	ReservedTablesCount int
	OccupiedTablesCount int
	OccupancyRate       int
	AvgPartySize        int
	Pending             []PendingReservation
}
