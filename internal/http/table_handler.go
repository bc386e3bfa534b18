package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/floor-manager/internal/application"
	"github.com/example/floor-manager/internal/floor"
)

type tableService interface {
	AddTable(ctx context.Context, params application.AddTableParams) (floor.Table, error)
	UpdateTable(ctx context.Context, params application.UpdateTableParams) (floor.Table, error)
	RemoveTable(ctx context.Context, tableID string) ([]floor.Reservation, error)
	Occupy(ctx context.Context, params application.OccupyParams) (floor.Table, error)
	Free(ctx context.Context, tableID string) (floor.Table, error)
	Reset(ctx context.Context, tableID string) (floor.Table, error)
	RecordOrder(ctx context.Context, tableID string) (floor.Table, error)
	CheckIn(ctx context.Context, tableID, reservationID string) (floor.Table, error)
	CheckOut(ctx context.Context, tableID, reservationID string) (floor.Table, error)
	Merge(ctx context.Context, params application.MergeParams) (floor.Table, error)
	Split(ctx context.Context, tableID string) (floor.SplitResult, error)
}

// TableHandler serves table management and lifecycle endpoints.
type TableHandler struct {
	service   tableService
	responder responder
	logger    *slog.Logger
}

func NewTableHandler(service tableService, logger *slog.Logger) *TableHandler {
	base := defaultLogger(logger)
	return &TableHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TableHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TableHandler", operation, attrs...)
}

// tableID resolves the {id} path variable or writes a 400.
func (h *TableHandler) tableID(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return "", false
	}
	id := pathVar(r, "id")
	if id == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").WarnContext(r.Context(), "missing table id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidTableID)
		return "", false
	}
	return id, true
}

// respond writes the table or maps the service error.
func (h *TableHandler) respond(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, table floor.Table, err error, message string) {
	if err != nil {
		logger.WarnContext(r.Context(), message+" failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), message)
	h.responder.writeJSON(r.Context(), w, status, tableResponse{Table: toTableDTO(table)})
}

func (h *TableHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req tableRequest
	if err := decodeBody(r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode table request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	table, err := h.service.AddTable(r.Context(), req.toParams())
	h.respond(w, r, h.log(r.Context(), "Create", "table_id", table.ID), http.StatusCreated, table, err, "table created")
}

func (h *TableHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(w, r, "Update")
	if !ok {
		return
	}

	var req tableUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	table, err := h.service.UpdateTable(r.Context(), application.UpdateTableParams{
		TableID:       id,
		Name:          req.Name,
		CapacityDelta: req.CapacityDelta,
		MakePermanent: req.MakePermanent,
	})
	h.respond(w, r, h.log(r.Context(), "Update", "table_id", id), http.StatusOK, table, err, "table updated")
}

func (h *TableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(w, r, "Delete")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Delete", "table_id", id)
	moved, err := h.service.RemoveTable(r.Context(), id)
	if err != nil {
		logger.WarnContext(r.Context(), "table delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "table deleted", "unassigned", len(moved))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, unassignedResponse{Unassigned: toReservationDTOs(moved)})
}

func (h *TableHandler) Occupy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(w, r, "Occupy")
	if !ok {
		return
	}

	var req occupyRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	table, err := h.service.Occupy(r.Context(), application.OccupyParams{
		TableID:           id,
		ReservationID:     req.ReservationID,
		AcknowledgeWalkIn: req.AcknowledgeWalkIn,
	})
	h.respond(w, r, h.log(r.Context(), "Occupy", "table_id", id), http.StatusOK, table, err, "table occupied")
}

func (h *TableHandler) Free(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(w, r, "Free")
	if !ok {
		return
	}
	table, err := h.service.Free(r.Context(), id)
	h.respond(w, r, h.log(r.Context(), "Free", "table_id", id), http.StatusOK, table, err, "table freed")
}

func (h *TableHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(w, r, "Reset")
	if !ok {
		return
	}
	table, err := h.service.Reset(r.Context(), id)
	h.respond(w, r, h.log(r.Context(), "Reset", "table_id", id), http.StatusOK, table, err, "table reset")
}

func (h *TableHandler) RecordOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(w, r, "RecordOrder")
	if !ok {
		return
	}
	table, err := h.service.RecordOrder(r.Context(), id)
	h.respond(w, r, h.log(r.Context(), "RecordOrder", "table_id", id), http.StatusOK, table, err, "order recorded")
}

func (h *TableHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.reservationTransition(w, r, "CheckIn", false)
}

func (h *TableHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.reservationTransition(w, r, "CheckOut", true)
}

func (h *TableHandler) reservationTransition(w http.ResponseWriter, r *http.Request, operation string, checkOut bool) {
	id, ok := h.tableID(w, r, operation)
	if !ok {
		return
	}

	var req checkInRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if req.ReservationID == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidReservationID)
		return
	}

	apply, message := h.service.CheckIn, "reservation checked in"
	if checkOut {
		apply, message = h.service.CheckOut, "reservation checked out"
	}
	table, err := apply(r.Context(), id, req.ReservationID)
	h.respond(w, r, h.log(r.Context(), operation, "table_id", id, "reservation_id", req.ReservationID), http.StatusOK, table, err, message)
}

func (h *TableHandler) Merge(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(w, r, "Merge")
	if !ok {
		return
	}

	var req mergeRequest
	if err := decodeBody(r, &req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	table, err := h.service.Merge(r.Context(), application.MergeParams{TargetID: id, SourceIDs: req.SourceIDs})
	h.respond(w, r, h.log(r.Context(), "Merge", "target_id", id, "source_ids", req.SourceIDs), http.StatusOK, table, err, "tables merged")
}

func (h *TableHandler) Split(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tableID(w, r, "Split")
	if !ok {
		return
	}

	logger := h.log(r.Context(), "Split", "table_id", id)
	result, err := h.service.Split(r.Context(), id)
	if err != nil {
		logger.WarnContext(r.Context(), "table split failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	logger.InfoContext(r.Context(), "table split", "restored", len(result.Tables))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, splitResponse{
		Tables:     toTableDTOs(result.Tables),
		Unassigned: toReservationDTOs(result.Unassigned),
	})
}

type tableResponse struct {
	Table tableDTO `json:"table"`
}

type unassignedResponse struct {
	Unassigned []reservationDTO `json:"unassigned"`
}

type splitResponse struct {
	Tables     []tableDTO       `json:"tables"`
	Unassigned []reservationDTO `json:"unassigned"`
}
