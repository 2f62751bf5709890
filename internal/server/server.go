// Package server exposes the monitor's current state over a local HTTP API,
// for scripts and UI shells that poll instead of embedding the core.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/usagewatch/usagewatch/pkg/monitor"
	"github.com/usagewatch/usagewatch/pkg/statestore"
	"github.com/usagewatch/usagewatch/pkg/usage"
)

// Server provides health, status, and manual-refresh endpoints.
type Server struct {
	monitor *monitor.Monitor
	store   *statestore.Store
	router  chi.Router
	logger  *slog.Logger
}

// New creates the status API server.
func New(m *monitor.Monitor, store *statestore.Store, logger *slog.Logger) *Server {
	s := &Server{
		monitor: m,
		store:   store,
		router:  chi.NewRouter(),
		logger:  logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/v1/status", s.handleStatus)
	s.router.Get("/api/v1/state", s.handleState)
	s.router.Post("/api/v1/refresh", s.handleRefresh)
}

// Handler returns the HTTP handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	Status         string          `json:"status"`
	Snapshot       *usage.Snapshot `json:"snapshot,omitempty"`
	FiveHourResets string          `json:"five_hour_resets,omitempty"`
	SevenDayResets string          `json:"seven_day_resets,omitempty"`
	NextUpdateAt   string          `json:"next_update_at,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	resp := statusResponse{
		Status:   s.monitor.StatusText(),
		Snapshot: s.monitor.Snapshot(),
	}
	if resp.Snapshot != nil {
		now := time.Now()
		resp.FiveHourResets = monitor.FormatRelativeReset(resp.Snapshot.FiveHourReset, now)
		resp.SevenDayResets = monitor.FormatRelativeReset(resp.Snapshot.SevenDayReset, now)
	}
	if next := s.monitor.NextUpdateAt(); !next.IsZero() {
		resp.NextUpdateAt = next.Format(time.RFC3339)
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	// Reads the durable file rather than the in-memory copy, so it works
	// even while a cycle holds the gate. Save is an atomic rename.
	s.respond(w, http.StatusOK, s.store.Load())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// Same entry point as the timer: if a cycle is in flight the trigger
	// is dropped, not queued.
	ran := s.monitor.RunCycle(r.Context())
	code := http.StatusOK
	if !ran {
		code = http.StatusConflict
	}
	s.respond(w, code, map[string]bool{"refreshed": ran})
}

func (s *Server) respond(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
