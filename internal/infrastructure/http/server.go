package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/koop46/crypto-prices/internal/application"
	"github.com/koop46/crypto-prices/internal/presentation"
)

const idempotencyHeader = "X-Idempotency-Key"

// Server is the presentation boundary: it hands scheduler snapshots and the
// windowed history to whatever renderer sits on the other side, and exposes
// the manual refresh trigger back into the scheduler.
type Server struct {
	sched *application.Scheduler
	store application.HistoryStore
	guard application.RefreshGuard
	ping  func(ctx context.Context) error
}

func NewServer(sched *application.Scheduler, store application.HistoryStore, guard application.RefreshGuard) *Server {
	return &Server{sched: sched, store: store, guard: guard}
}

// SetReadyCheck wires a dependency ping into /readyz.
func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

func (s *Server) getPrices(w http.ResponseWriter, r *http.Request) {
	snap := s.sched.Snapshot()
	writeJSON(w, http.StatusOK, presentation.BuildDashboard(snap, time.Now()))
}

type historyResponse struct {
	Rows    []presentation.HistoryRow `json:"rows"`
	Warning string                    `json:"warning,omitempty"`
}

func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	// A broken log never blocks current prices: degrade to an empty table.
	resp := historyResponse{Rows: []presentation.HistoryRow{}}
	records, err := s.store.LoadWindow(r.Context(), time.Now())
	if err != nil {
		resp.Warning = err.Error()
	} else {
		resp.Rows = presentation.HistoryTable(records)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) postRefresh(w http.ResponseWriter, r *http.Request) {
	if key := r.Header.Get(idempotencyHeader); key != "" && s.guard != nil {
		ok, err := s.guard.TryReserve(r.Context(), key)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "refresh guard unavailable")
			return
		}
		if !ok {
			writeError(w, http.StatusConflict, "refresh already requested")
			return
		}
	}
	s.sched.ForceRefresh()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh scheduled"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"code": code, "message": msg})
}
