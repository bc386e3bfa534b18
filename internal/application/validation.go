package application

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/example/floor-manager/internal/floor"
	"github.com/example/floor-manager/internal/scheduler"
)

const defaultFloorName = "main"

func validateReservationInput(input ReservationInput) (ReservationInput, *ValidationError) {
	vErr := &ValidationError{}
	out := input
	out.FirstName = strings.TrimSpace(input.FirstName)
	out.LastName = strings.TrimSpace(input.LastName)
	out.Email = strings.TrimSpace(input.Email)
	out.Phone = strings.TrimSpace(input.Phone)

	if out.FirstName == "" {
		vErr.add("first_name", "first name is required")
	}
	if input.Guests < 1 {
		vErr.add("guests", "guests must be at least 1")
	}
	if _, err := scheduler.ParseDate(strings.TrimSpace(input.Date)); err != nil {
		vErr.add("date", "date must be YYYY-MM-DD")
	} else {
		out.Date = strings.TrimSpace(input.Date)
	}
	if minutes, err := scheduler.ParseClock(input.Time); err != nil {
		vErr.add("time", "time must be HH:MM")
	} else {
		out.Time = scheduler.FormatClock(minutes)
	}
	if out.Email != "" {
		if _, err := mail.ParseAddress(out.Email); err != nil {
			vErr.add("email", "must be a valid email address")
		}
	}
	switch input.Status {
	case "":
		out.Status = floor.ReservationConfirmed
	case floor.ReservationConfirmed, floor.ReservationPending:
	default:
		vErr.add("status", fmt.Sprintf("status must be %s or %s", floor.ReservationConfirmed, floor.ReservationPending))
	}
	return out, vErr
}

func validateTableParams(params AddTableParams) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(params.Name) == "" {
		vErr.add("name", "name is required")
	}
	if params.Capacity < 1 {
		vErr.add("capacity", "capacity must be at least 1")
	}
	if params.Shape != "" && !params.Shape.Valid() {
		vErr.add("shape", "shape must be circle, square, rectangle or oval")
	}
	return vErr
}

func validateSlot(date, clock string, guests int) (string, string, *ValidationError) {
	vErr := &ValidationError{}
	date = strings.TrimSpace(date)
	if _, err := scheduler.ParseDate(date); err != nil {
		vErr.add("date", "date must be YYYY-MM-DD")
	}
	minutes, err := scheduler.ParseClock(clock)
	if err != nil {
		vErr.add("time", "time must be HH:MM")
	}
	if guests < 1 {
		vErr.add("guests", "guests must be at least 1")
	}
	return date, scheduler.FormatClock(minutes), vErr
}
