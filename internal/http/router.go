package http

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
)

type RouterConfig struct {
	Floor        *FloorHandler
	Tables       *TableHandler
	Reservations *ReservationHandler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	notFound := newResponder(nil)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		notFound.writeError(req.Context(), w, http.StatusNotFound, errors.New("route not found"))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		notFound.writeError(req.Context(), w, http.StatusMethodNotAllowed, nil)
	})

	if cfg.Floor != nil {
		r.HandleFunc("/turn-time", cfg.Floor.TurnTime).Methods(http.MethodGet)
		r.HandleFunc("/conflicts", cfg.Floor.Conflicts).Methods(http.MethodGet)
		r.HandleFunc("/floor", cfg.Floor.Floor).Methods(http.MethodGet)
		r.HandleFunc("/floors/{floor}", cfg.Floor.FloorView).Methods(http.MethodGet)
		r.HandleFunc("/stats", cfg.Floor.Stats).Methods(http.MethodGet)
		r.HandleFunc("/availability", cfg.Floor.Availability).Methods(http.MethodGet)
	}

	if cfg.Tables != nil {
		tables := r.PathPrefix("/tables").Subrouter()
		tables.HandleFunc("", cfg.Tables.Create).Methods(http.MethodPost)
		tables.HandleFunc("/{id}", cfg.Tables.Update).Methods(http.MethodPatch)
		tables.HandleFunc("/{id}", cfg.Tables.Delete).Methods(http.MethodDelete)
		tables.HandleFunc("/{id}/occupy", cfg.Tables.Occupy).Methods(http.MethodPost)
		tables.HandleFunc("/{id}/free", cfg.Tables.Free).Methods(http.MethodPost)
		tables.HandleFunc("/{id}/reset", cfg.Tables.Reset).Methods(http.MethodPost)
		tables.HandleFunc("/{id}/orders", cfg.Tables.RecordOrder).Methods(http.MethodPost)
		tables.HandleFunc("/{id}/check-in", cfg.Tables.CheckIn).Methods(http.MethodPost)
		tables.HandleFunc("/{id}/check-out", cfg.Tables.CheckOut).Methods(http.MethodPost)
		tables.HandleFunc("/{id}/merge", cfg.Tables.Merge).Methods(http.MethodPost)
		tables.HandleFunc("/{id}/split", cfg.Tables.Split).Methods(http.MethodPost)
	}

	if cfg.Reservations != nil {
		reservations := r.PathPrefix("/reservations").Subrouter()
		reservations.HandleFunc("", cfg.Reservations.Create).Methods(http.MethodPost)
		reservations.HandleFunc("/{id}", cfg.Reservations.Update).Methods(http.MethodPut)
		reservations.HandleFunc("/{id}", cfg.Reservations.Delete).Methods(http.MethodDelete)
		reservations.HandleFunc("/{id}/move", cfg.Reservations.Move).Methods(http.MethodPost)
		reservations.HandleFunc("/{id}/cancel", cfg.Reservations.Cancel).Methods(http.MethodPost)
	}

	var handler http.Handler = r
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}
