package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/floor-manager/internal/application"
	"github.com/example/floor-manager/internal/floor"
)

type floorService interface {
	ResolveTurnTime(ctx context.Context, guests int, tableID string) (int, error)
	Conflicts(ctx context.Context, query application.ConflictQuery) (bool, error)
	Snapshot(ctx context.Context) (floor.Snapshot, error)
	FloorView(ctx context.Context, floorName, date string) ([]application.TableView, error)
	Stats(ctx context.Context, floorName, date string) (application.FloorStats, error)
	AvailableTables(ctx context.Context, query application.AvailabilityQuery) ([]application.TableCandidate, error)
}

// FloorHandler serves read-only views of the floor.
type FloorHandler struct {
	service   floorService
	responder responder
	logger    *slog.Logger
}

func NewFloorHandler(service floorService, logger *slog.Logger) *FloorHandler {
	base := defaultLogger(logger)
	return &FloorHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *FloorHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "FloorHandler", operation, attrs...)
}

func (h *FloorHandler) TurnTime(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	guests, err := queryInt(r, "guests")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	tableID := strings.TrimSpace(r.URL.Query().Get("table_id"))

	minutes, err := h.service.ResolveTurnTime(r.Context(), guests, tableID)
	if err != nil {
		h.log(r.Context(), "TurnTime", "guests", guests).WarnContext(r.Context(), "turn time lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, turnTimeResponse{Guests: guests, Minutes: minutes})
}

func (h *FloorHandler) Conflicts(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	guestsA, err := queryInt(r, "guests_a")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	guestsB, err := queryInt(r, "guests_b")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()
	conflict, err := h.service.Conflicts(r.Context(), application.ConflictQuery{
		TimeA:   q.Get("time_a"),
		GuestsA: guestsA,
		TimeB:   q.Get("time_b"),
		GuestsB: guestsB,
		TableID: strings.TrimSpace(q.Get("table_id")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, conflictResponse{Conflict: conflict})
}

func (h *FloorHandler) Floor(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	snap, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.log(r.Context(), "Floor").ErrorContext(r.Context(), "failed to load floor", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, floorResponse{
		Tables:     toTableDTOs(snap.List()),
		Unassigned: toReservationDTOs(snap.Unassigned),
	})
}

func (h *FloorHandler) FloorView(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	floorName := pathVar(r, "floor")
	date := r.URL.Query().Get("date")
	views, err := h.service.FloorView(r.Context(), floorName, date)
	if err != nil {
		h.log(r.Context(), "FloorView", "floor", floorName).WarnContext(r.Context(), "floor view failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	tables := make([]tableViewDTO, 0, len(views))
	for _, v := range views {
		tables = append(tables, toTableViewDTO(v))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, floorViewResponse{Floor: floorName, Date: date, Tables: tables})
}

func (h *FloorHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	q := r.URL.Query()
	stats, err := h.service.Stats(r.Context(), q.Get("floor"), q.Get("date"))
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toStatsDTO(stats))
}

func (h *FloorHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	guests, err := queryInt(r, "guests")
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}
	q := r.URL.Query()
	candidates, err := h.service.AvailableTables(r.Context(), application.AvailabilityQuery{
		Date:                 q.Get("date"),
		Time:                 q.Get("time"),
		Guests:               guests,
		Floor:                q.Get("floor"),
		ExcludeReservationID: strings.TrimSpace(q.Get("exclude")),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	out := make([]candidateDTO, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, toCandidateDTO(c))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{Candidates: out})
}

type turnTimeResponse struct {
	Guests  int `json:"guests"`
	Minutes int `json:"minutes"`
}

type conflictResponse struct {
	Conflict bool `json:"conflict"`
}

type floorResponse struct {
	Tables     []tableDTO       `json:"tables"`
	Unassigned []reservationDTO `json:"unassigned"`
}

type floorViewResponse struct {
	Floor  string         `json:"floor"`
	Date   string         `json:"date,omitempty"`
	Tables []tableViewDTO `json:"tables"`
}

type availabilityResponse struct {
	Candidates []candidateDTO `json:"candidates"`
}
