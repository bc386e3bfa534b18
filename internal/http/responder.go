package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/example/floor-manager/internal/application"
	"github.com/example/floor-manager/internal/floor"
)

var (
	errBadRequestBody       = errors.New("request body is not valid JSON")
	errInvalidTableID       = errors.New("table id is required")
	errInvalidReservationID = errors.New("reservation id is required")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request rejected", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	var conflict *floor.ConflictError
	if errors.As(err, &conflict) {
		resolutions := make([]string, 0, len(conflict.Resolutions))
		for _, res := range conflict.Resolutions {
			resolutions = append(resolutions, string(res))
		}
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode:     strings.ToUpper(string(conflict.Kind)) + "_CONFLICT",
			Message:       conflict.Error(),
			TableID:       conflict.TableID,
			ConflictsWith: conflict.With,
			Resolutions:   resolutions,
		})
		return
	}

	var imminent *floor.ImminentReservationError
	if errors.As(err, &imminent) {
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode:  "IMMINENT_RESERVATION",
			Message:    imminent.Error(),
			TableID:    imminent.TableID,
			Candidates: toReservationDTOs(imminent.Candidates),
		})
		return
	}

	var vErr *application.ValidationError
	if errors.As(err, &vErr) {
		r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
			Message: "request contains invalid fields",
			Errors:  vErr.FieldErrors,
		})
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound),
		errors.Is(err, floor.ErrTableNotFound),
		errors.Is(err, floor.ErrReservationNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: err.Error()})
		return
	}

	if code := structuralErrorCode(err); code != "" {
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{ErrorCode: code, Message: err.Error()})
		return
	}

	r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
	r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "internal server error"})
}

// structuralErrorCode labels precondition failures that leave the floor unchanged.
func structuralErrorCode(err error) string {
	codes := []struct {
		target error
		code   string
	}{
		{floor.ErrTableOccupied, "TABLE_OCCUPIED"},
		{floor.ErrTableNotOccupied, "TABLE_NOT_OCCUPIED"},
		{floor.ErrMergeOccupied, "MERGE_OCCUPIED"},
		{floor.ErrMergeTooFew, "MERGE_TOO_FEW"},
		{floor.ErrNothingToSplit, "NOTHING_TO_SPLIT"},
		{floor.ErrInvalidTransition, "INVALID_TRANSITION"},
		{floor.ErrPartyAlreadySeated, "PARTY_ALREADY_SEATED"},
		{floor.ErrEarlierReservationPending, "EARLIER_RESERVATION_PENDING"},
		{floor.ErrReservationNotOnTable, "RESERVATION_NOT_ON_TABLE"},
		{floor.ErrDuplicateID, "DUPLICATE_ID"},
		{application.ErrConcurrentUpdate, "CONCURRENT_UPDATE"},
	}
	for _, c := range codes {
		if errors.Is(err, c.target) {
			return c.code
		}
	}
	return ""
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

// decodeBody parses an optional JSON body; an empty body leaves dst untouched.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func pathVar(r *http.Request, name string) string {
	return strings.TrimSpace(mux.Vars(r)[name])
}

// queryInt parses an optional integer query parameter; missing values yield zero.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(name + " must be an integer")
	}
	return v, nil
}

type errorResponse struct {
	ErrorCode     string            `json:"error_code,omitempty"`
	Message       string            `json:"message"`
	Errors        map[string]string `json:"errors,omitempty"`
	TableID       string            `json:"table_id,omitempty"`
	ConflictsWith []string          `json:"conflicts_with,omitempty"`
	Resolutions   []string          `json:"resolutions,omitempty"`
	Candidates    []reservationDTO  `json:"candidates,omitempty"`
}
