package application

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/example/floor-manager/internal/floor"
	"github.com/example/floor-manager/internal/scheduler"
)

// AvailableTables evaluates every table for a prospective booking. Tables that can
// take it without an override come first, tightest fit first; the rest keep display
// order behind them. ExcludeReservationID keeps a booking being edited or moved from
// conflicting with itself.
func (s *FloorService) AvailableTables(ctx context.Context, query AvailabilityQuery) ([]TableCandidate, error) {
	date, clock, vErr := validateSlot(query.Date, query.Time, query.Guests)
	if vErr.HasErrors() {
		return nil, vErr
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	probe := floor.Reservation{
		ID:     query.ExcludeReservationID,
		Guests: query.Guests,
		Date:   date,
		Time:   clock,
		Status: floor.ReservationConfirmed,
	}
	tables := snap.OnFloor(strings.TrimSpace(query.Floor))
	candidates := make([]TableCandidate, 0, len(tables))
	for _, t := range tables {
		with, err := floor.TimeConflicts(t, probe, s.settings.TurnTimes)
		if err != nil {
			return nil, err
		}
		spare := t.Capacity - query.Guests
		candidates = append(candidates, TableCandidate{
			Table:     t,
			Conflict:  len(with) > 0,
			With:      with,
			Fit:       capacityFit(spare),
			SpareSeat: spare,
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Available() != b.Available() {
			return a.Available()
		}
		if a.Available() {
			return a.SpareSeat < b.SpareSeat
		}
		return false
	})
	return candidates, nil
}

func capacityFit(spare int) CapacityFit {
	switch {
	case spare < 0:
		return FitTooSmall
	case spare == 0:
		return FitExact
	case spare <= 2:
		return FitGood
	default:
		return FitLoose
	}
}

// FloorView returns the tables of a floor with their derived display state for
// date. An empty date means today in the venue's location; warnings about the
// current time only apply to today.
func (s *FloorService) FloorView(ctx context.Context, floorName, date string) ([]TableView, error) {
	now, today, nowMinutes := s.clock()
	date, err := s.resolveDate(date, today)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	isToday := date == today
	warning := int(s.settings.UpcomingWarning / time.Minute)
	tables := snap.OnFloor(strings.TrimSpace(floorName))
	views := make([]TableView, 0, len(tables))
	for _, t := range tables {
		view := TableView{Table: t}
		if t.SeatedAt != nil {
			view.ElapsedSeconds = int64(max(0, now.Sub(*t.SeatedAt)) / time.Second)
		}
		for _, r := range t.ReservationsOn(date) {
			if r.Status.Upcoming() {
				view.Upcoming = append(view.Upcoming, r)
			}
		}
		view.Reserved = t.Status == floor.StatusFree && len(view.Upcoming) > 0

		if isToday {
			for _, r := range view.Upcoming {
				start, err := scheduler.ParseClock(r.Time)
				if err != nil {
					continue
				}
				if t.Status == floor.StatusOccupied && r.Status == floor.ReservationConfirmed && start-nowMinutes <= warning {
					view.UpcomingWarning = true
				}
				if t.Status == floor.StatusFree && nowMinutes >= start {
					view.LateWarning = true
				}
			}
		}
		if t.Status == floor.StatusOccupied && t.LastOrderAt != nil && s.settings.StallThreshold > 0 {
			view.Stalled = now.Sub(*t.LastOrderAt) >= s.settings.StallThreshold
		}
		views = append(views, view)
	}
	return views, nil
}

// Stats summarises occupancy and pending bookings of a floor for date. An empty
// floor name covers every floor.
func (s *FloorService) Stats(ctx context.Context, floorName, date string) (FloorStats, error) {
	_, today, _ := s.clock()
	date, err := s.resolveDate(date, today)
	if err != nil {
		return FloorStats{}, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return FloorStats{}, err
	}

	var stats FloorStats
	for _, t := range snap.OnFloor(strings.TrimSpace(floorName)) {
		stats.TotalTables++
		stats.TotalSeats += t.Capacity

		hasUpcoming := false
		for _, r := range t.ReservationsOn(date) {
			if !r.Status.Upcoming() {
				continue
			}
			hasUpcoming = true
			stats.Pending = append(stats.Pending, PendingReservation{Reservation: r, TableName: t.Name})
		}

		switch {
		case t.Status == floor.StatusOccupied:
			stats.OccupiedTablesCount++
			stats.OccupiedSeats += t.Capacity
		case hasUpcoming:
			stats.ReservedTablesCount++
			stats.ReservedSeats += t.Capacity
		default:
			stats.FreeTablesCount++
		}
	}
	sort.SliceStable(stats.Pending, func(i, j int) bool {
		return stats.Pending[i].Reservation.Time < stats.Pending[j].Reservation.Time
	})
	if stats.TotalSeats > 0 {
		stats.OccupancyRate = int(math.Round(float64(stats.OccupiedSeats) / float64(stats.TotalSeats) * 100))
	}
	if stats.OccupiedTablesCount > 0 {
		stats.AvgPartySize = int(math.Round(float64(stats.OccupiedSeats) / float64(stats.OccupiedTablesCount)))
	}
	return stats, nil
}

func (s *FloorService) resolveDate(date, today string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return today, nil
	}
	if _, err := scheduler.ParseDate(date); err != nil {
		vErr := &ValidationError{}
		vErr.add("date", "date must be YYYY-MM-DD")
		return "", vErr
	}
	return date, nil
}
