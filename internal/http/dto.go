package http

import (
	"time"

	"github.com/example/floor-manager/internal/application"
	"github.com/example/floor-manager/internal/floor"
	"github.com/example/floor-manager/internal/scheduler"
)

type positionDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type turnTimeDTO struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

type reservationDTO struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name,omitempty"`
	Guests        int        `json:"guests"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Date          string     `json:"date"`
	Time          string     `json:"time"`
	Notes         string     `json:"notes,omitempty"`
	TableID       string     `json:"table_id,omitempty"`
	TableName     string     `json:"table_name,omitempty"`
	OriginTableID string     `json:"origin_table_id,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type tableDTO struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Floor            string           `json:"floor"`
	Position         positionDTO      `json:"position"`
	Shape            string           `json:"shape"`
	Capacity         int              `json:"capacity"`
	OriginalCapacity int              `json:"original_capacity"`
	Status           string           `json:"status"`
	SeatedAt         *time.Time       `json:"seated_at,omitempty"`
	LastOrderAt      *time.Time       `json:"last_order_at,omitempty"`
	IsExtended       bool             `json:"is_extended"`
	SubTableIDs      []string         `json:"sub_table_ids,omitempty"`
	IsTemporary      bool             `json:"is_temporary"`
	TurnTime         *turnTimeDTO     `json:"turn_time,omitempty"`
	Reservations     []reservationDTO `json:"reservations"`
}

type tableViewDTO struct {
	tableDTO
	ElapsedSeconds  int64            `json:"elapsed_seconds"`
	Reserved        bool             `json:"reserved"`
	Upcoming        []reservationDTO `json:"upcoming"`
	UpcomingWarning bool             `json:"upcoming_warning"`
	LateWarning     bool             `json:"late_warning"`
	Stalled         bool             `json:"stalled"`
}

type candidateDTO struct {
	Table         tableDTO `json:"table"`
	Available     bool     `json:"available"`
	Conflict      bool     `json:"conflict"`
	ConflictsWith []string `json:"conflicts_with,omitempty"`
	Fit           string   `json:"fit"`
	SpareSeats    int      `json:"spare_seats"`
}

type statsDTO struct {
	TotalTables         int              `json:"total_tables"`
	TotalSeats          int              `json:"total_seats"`
	OccupiedSeats       int              `json:"occupied_seats"`
	ReservedSeats       int              `json:"reserved_seats"`
	FreeTablesCount     int              `json:"free_tables_count"`
	ReservedTablesCount int              `json:"reserved_tables_count"`
	OccupiedTablesCount int              `json:"occupied_tables_count"`
	OccupancyRate       int              `json:"occupancy_rate"`
	AvgPartySize        int              `json:"avg_party_size"`
	Pending             []reservationDTO `json:"pending"`
}

type tableRequest struct {
	Name      string       `json:"name"`
	Floor     string       `json:"floor"`
	Position  positionDTO  `json:"position"`
	Shape     string       `json:"shape"`
	Capacity  int          `json:"capacity"`
	Temporary bool         `json:"temporary"`
	TurnTime  *turnTimeDTO `json:"turn_time"`
}

func (r tableRequest) toParams() application.AddTableParams {
	params := application.AddTableParams{
		Name:      r.Name,
		Floor:     r.Floor,
		Position:  floor.Position{X: r.Position.X, Y: r.Position.Y},
		Shape:     floor.Shape(r.Shape),
		Capacity:  r.Capacity,
		Temporary: r.Temporary,
	}
	if r.TurnTime != nil {
		params.TurnTime = &scheduler.TurnTimeConfig{Small: r.TurnTime.Small, Medium: r.TurnTime.Medium, Large: r.TurnTime.Large}
	}
	return params
}

type tableUpdateRequest struct {
	Name          *string `json:"name"`
	CapacityDelta int     `json:"capacity_delta"`
	MakePermanent bool    `json:"make_permanent"`
}

type occupyRequest struct {
	ReservationID     string `json:"reservation_id"`
	AcknowledgeWalkIn bool   `json:"acknowledge_walk_in"`
}

type checkInRequest struct {
	ReservationID string `json:"reservation_id"`
}

type mergeRequest struct {
	SourceIDs []string `json:"source_ids"`
}

type reservationRequest struct {
	TableID   string   `json:"table_id"`
	TableIDs  []string `json:"table_ids"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Guests    int      `json:"guests"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Date      string   `json:"date"`
	Time      string   `json:"time"`
	Notes     string   `json:"notes"`
	Status    string   `json:"status"`
	Force     bool     `json:"force"`
}

func (r reservationRequest) toInput() application.ReservationInput {
	return application.ReservationInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Guests:    r.Guests,
		Email:     r.Email,
		Phone:     r.Phone,
		Date:      r.Date,
		Time:      r.Time,
		Notes:     r.Notes,
		Status:    floor.ReservationStatus(r.Status),
	}
}

type moveRequest struct {
	FromTableID string `json:"from_table_id"`
	ToTableID   string `json:"to_table_id"`
	Force       bool   `json:"force"`
}

func toReservationDTO(r floor.Reservation) reservationDTO {
	return reservationDTO{
		ID:            r.ID,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Guests:        r.Guests,
		Email:         r.Email,
		Phone:         r.Phone,
		Date:          r.Date,
		Time:          r.Time,
		Notes:         r.Notes,
		TableID:       r.TableID,
		TableName:     r.TableName,
		OriginTableID: r.OriginTableID,
		Status:        string(r.Status),
		CreatedAt:     optionalTime(r.CreatedAt),
		UpdatedAt:     optionalTime(r.UpdatedAt),
	}
}

func toReservationDTOs(rs []floor.Reservation) []reservationDTO {
	out := make([]reservationDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReservationDTO(r))
	}
	return out
}

func toTableDTO(t floor.Table) tableDTO {
	dto := tableDTO{
		ID:               t.ID,
		Name:             t.Name,
		Floor:            t.Floor,
		Position:         positionDTO{X: t.Position.X, Y: t.Position.Y},
		Shape:            string(t.Shape),
		Capacity:         t.Capacity,
		OriginalCapacity: t.OriginalCapacity,
		Status:           string(t.Status),
		SeatedAt:         t.SeatedAt,
		LastOrderAt:      t.LastOrderAt,
		IsExtended:       t.IsExtended,
		SubTableIDs:      t.SubTableIDs,
		IsTemporary:      t.IsTemporary,
		Reservations:     toReservationDTOs(t.Reservations),
	}
	if t.TurnTime != nil {
		dto.TurnTime = &turnTimeDTO{Small: t.TurnTime.Small, Medium: t.TurnTime.Medium, Large: t.TurnTime.Large}
	}
	return dto
}

func toTableDTOs(ts []floor.Table) []tableDTO {
	out := make([]tableDTO, 0, len(ts))
	for _, t := range ts {
		out = append(out, toTableDTO(t))
	}
	return out
}

func toTableViewDTO(v application.TableView) tableViewDTO {
	return tableViewDTO{
		tableDTO:        toTableDTO(v.Table),
		ElapsedSeconds:  v.ElapsedSeconds,
		Reserved:        v.Reserved,
		Upcoming:        toReservationDTOs(v.Upcoming),
		UpcomingWarning: v.UpcomingWarning,
		LateWarning:     v.LateWarning,
		Stalled:         v.Stalled,
	}
}

func toCandidateDTO(c application.TableCandidate) candidateDTO {
	return candidateDTO{
		Table:         toTableDTO(c.Table),
		Available:     c.Available(),
		Conflict:      c.Conflict,
		ConflictsWith: c.With,
		Fit:           string(c.Fit),
		SpareSeats:    c.SpareSeat,
	}
}

func toStatsDTO(s application.FloorStats) statsDTO {
	pending := make([]reservationDTO, 0, len(s.Pending))
	for _, p := range s.Pending {
		dto := toReservationDTO(p.Reservation)
		dto.TableName = p.TableName
		pending = append(pending, dto)
	}
	return statsDTO{
		TotalTables:         s.TotalTables,
		TotalSeats:          s.TotalSeats,
		OccupiedSeats:       s.OccupiedSeats,
		ReservedSeats:       s.ReservedSeats,
		FreeTablesCount:     s.FreeTablesCount,
		ReservedTablesCount: s.ReservedTablesCount,
		OccupiedTablesCount: s.OccupiedTablesCount,
		OccupancyRate:       s.OccupancyRate,
		AvgPartySize:        s.AvgPartySize,
		Pending:             pending,
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
