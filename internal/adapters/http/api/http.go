// Package api declares HTTP contracts and route registration helpers for the
// operational surface of the report pipeline.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/yorch88/tech-performance/internal/adapters/repository"
	"github.com/yorch88/tech-performance/internal/app"
)

// Dependencies required by HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service wiring.
type Dependencies interface {
	StatsProvider
	Scanner

	// Store exposes completed runs for the read endpoints.
	Store() repository.Store
}

// Server wires HTTP routes for the operational API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	runsHandler   *RunsHandler
	scanHandler   *ScanHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		runsHandler:   NewRunsHandler(deps.Store()),
		scanHandler:   NewScanHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/runs", MetricsMiddleware(s.runsHandler.HandleListRuns, "runs"))
	mux.HandleFunc("/runs/", MetricsMiddleware(s.runsHandler.HandleGetRun, "run"))
	mux.HandleFunc("/scan", MetricsMiddleware(s.scanHandler.HandleScan, "scan"))
}

// StatsProvider defines the interface for pipeline statistics.
type StatsProvider interface {
	Stats(ctx context.Context) app.Stats
}

// Scanner defines the interface for triggering a directory scan.
type Scanner interface {
	TriggerScan(ctx context.Context) int
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
