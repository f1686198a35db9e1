// Package api exposes a read-only HTTP view of the daemon: current
// scheduling state and the day's activity. Commands never enter through
// HTTP; the queue file stays the only inbound channel.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"restly/internal/config"
	"restly/internal/eventlog"
	"restly/internal/scheduler"
	"restly/internal/summary"
)

type Server struct {
	cfg   config.Config
	sched *scheduler.Scheduler
}

func NewServer(cfg config.Config, sched *scheduler.Scheduler) http.Handler {
	s := &Server{cfg: cfg, sched: sched}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/api/status", s.status)
	r.Get("/api/activity/today", s.activityToday)
	r.Get("/api/summary/today", s.summaryToday)

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"scheduler": s.sched.Status(),
		"config": map[string]any{
			"interval_minutes": s.cfg.IntervalMinutes,
			"eye_care":         s.cfg.EyeCare,
			"active_hours":     s.cfg.ActiveHours.String(),
		},
	})
}

func (s *Server) activityToday(w http.ResponseWriter, r *http.Request) {
	day := time.Now().Format("2006-01-02")
	records, err := eventlog.ReadDay(s.cfg.ActivityDir, day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []eventlog.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) summaryToday(w http.ResponseWriter, r *http.Request) {
	day := time.Now().Format("2006-01-02")
	records, err := eventlog.ReadDay(s.cfg.ActivityDir, day)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, summary.Compute(day, records))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
