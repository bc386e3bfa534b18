package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/floor-manager/internal/application"
	"github.com/example/floor-manager/internal/floor"
)

type reservationService interface {
	AddReservation(ctx context.Context, params application.AddReservationParams) (floor.Reservation, error)
	MergeAndReserve(ctx context.Context, params application.MergeAndReserveParams) (floor.Table, floor.Reservation, error)
	UpdateReservation(ctx context.Context, params application.UpdateReservationParams) (floor.Reservation, error)
	MoveReservation(ctx context.Context, params application.MoveReservationParams) (floor.Reservation, error)
	CancelReservation(ctx context.Context, reservationID string) (floor.Reservation, error)
	DeleteReservation(ctx context.Context, reservationID string) error
}

// ReservationHandler books, edits and relocates reservations.
type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

func (h *ReservationHandler) reservationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return "", false
	}
	id := pathVar(r, "id")
	if id == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidReservationID)
		return "", false
	}
	return id, true
}

func (h *ReservationHandler) fail(w http.ResponseWriter, r *http.Request, logger *slog.Logger, message string, err error) {
	logger.WarnContext(r.Context(), message, "error", err, "error_kind", application.ErrorKind(err))
	h.responder.handleServiceError(r.Context(), w, err)
}

// Create books a party. Two or more table_ids merge those tables first.
func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req reservationRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	if len(req.TableIDs) >= 2 {
		logger := h.log(r.Context(), "Create", "table_ids", req.TableIDs)
		table, reservation, err := h.service.MergeAndReserve(r.Context(), application.MergeAndReserveParams{
			TableIDs: req.TableIDs,
			Input:    req.toInput(),
			Force:    req.Force,
		})
		if err != nil {
			h.fail(w, r, logger, "merge and reserve failed", err)
			return
		}
		logger.InfoContext(r.Context(), "reservation created on merged table", "table_id", table.ID, "reservation_id", reservation.ID)
		tableDTO := toTableDTO(table)
		h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationResponse{
			Reservation: toReservationDTO(reservation),
			Table:       &tableDTO,
		})
		return
	}

	tableID := req.TableID
	if tableID == "" && len(req.TableIDs) == 1 {
		tableID = req.TableIDs[0]
	}
	logger := h.log(r.Context(), "Create", "table_id", tableID)
	reservation, err := h.service.AddReservation(r.Context(), application.AddReservationParams{
		TableID: tableID,
		Input:   req.toInput(),
		Force:   req.Force,
	})
	if err != nil {
		h.fail(w, r, logger, "reservation create failed", err)
		return
	}
	logger.InfoContext(r.Context(), "reservation created", "reservation_id", reservation.ID)
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reservationID(w, r)
	if !ok {
		return
	}

	var req reservationRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "reservation_id", id)
	reservation, err := h.service.UpdateReservation(r.Context(), application.UpdateReservationParams{
		ReservationID: id,
		Input:         req.toInput(),
		Force:         req.Force,
	})
	if err != nil {
		h.fail(w, r, logger, "reservation update failed", err)
		return
	}
	logger.InfoContext(r.Context(), "reservation updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) Move(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reservationID(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Move", "reservation_id", id, "from", req.FromTableID, "to", req.ToTableID)
	reservation, err := h.service.MoveReservation(r.Context(), application.MoveReservationParams{
		ReservationID: id,
		FromTableID:   req.FromTableID,
		ToTableID:     req.ToTableID,
		Force:         req.Force,
	})
	if err != nil {
		h.fail(w, r, logger, "reservation move failed", err)
		return
	}
	logger.InfoContext(r.Context(), "reservation moved")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reservationID(w, r)
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Cancel", "reservation_id", id)
	reservation, err := h.service.CancelReservation(r.Context(), id)
	if err != nil {
		h.fail(w, r, logger, "reservation cancel failed", err)
		return
	}
	logger.InfoContext(r.Context(), "reservation cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, reservationResponse{Reservation: toReservationDTO(reservation)})
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.reservationID(w, r)
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Delete", "reservation_id", id)
	if err := h.service.DeleteReservation(r.Context(), id); err != nil {
		h.fail(w, r, logger, "reservation delete failed", err)
		return
	}
	logger.InfoContext(r.Context(), "reservation deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type reservationResponse struct {
	Reservation reservationDTO `json:"reservation"`
	Table       *tableDTO      `json:"table,omitempty"`
}
