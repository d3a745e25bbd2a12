// Package repository keeps completed report runs in memory for the
// operational HTTP API.
package repository

import (
	"context"
	"time"

	"github.com/yorch88/tech-performance/internal/adapters/ingest"
	"github.com/yorch88/tech-performance/internal/domain/perf"
)

// Run is one completed processing of a report file.
type Run struct {
	ID         string       `json:"id"`
	SourceFile string       `json:"source_file"`
	Kind       ingest.Kind  `json:"kind"`
	Period     int          `json:"period"`
	Title      string       `json:"title"`
	Result     *perf.Result `json:"result"`
	ReportPath string       `json:"report_path"`
	ReportText string       `json:"-"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Store provides access to completed runs.
type Store interface {
	// Add records a completed run.
	Add(ctx context.Context, run Run) error

	// Get returns a run by id. Returns ErrNotFound when unknown.
	Get(ctx context.Context, id string) (Run, error)

	// List returns runs newest-first.
	List(ctx context.Context) ([]Run, error)

	// Latest returns the most recent run. Returns ErrNotFound when empty.
	Latest(ctx context.Context) (Run, error)

	// Count returns the number of retained runs.
	Count(ctx context.Context) int
}
