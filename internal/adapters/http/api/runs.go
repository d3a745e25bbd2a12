// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/yorch88/tech-performance/internal/adapters/ingest"
	"github.com/yorch88/tech-performance/internal/adapters/repository"
)

// RunsHandler handles read access to completed runs.
type RunsHandler struct {
	store repository.Store
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(store repository.Store) *RunsHandler {
	return &RunsHandler{store: store}
}

// runSummary is the list shape for GET /runs.
type runSummary struct {
	ID         string      `json:"id"`
	SourceFile string      `json:"source_file"`
	Kind       ingest.Kind `json:"kind"`
	Period     int         `json:"period"`
	Title      string      `json:"title"`
	FinishedAt time.Time   `json:"finished_at"`
}

// HandleListRuns handles GET /runs requests, newest-first.
func (h *RunsHandler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	runs, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	out := make([]runSummary, len(runs))
	for i, run := range runs {
		out[i] = runSummary{
			ID:         run.ID,
			SourceFile: run.SourceFile,
			Kind:       run.Kind,
			Period:     run.Period,
			Title:      run.Title,
			FinishedAt: run.FinishedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGetRun handles GET /runs/{id} and GET /runs/{id}/report requests.
func (h *RunsHandler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/runs/")
	id, rest, hasRest := strings.Cut(path, "/")
	if id == "" || (hasRest && rest != "report") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	run, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	if hasRest {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(run.ReportText))
		return
	}
	writeJSON(w, http.StatusOK, run)
}
