// Package worker runs the pool that drains the file-job queue and processes
// each report file, isolating per-file failures.
package worker

import (
	"context"
	"strconv"
	"time"

	"github.com/yorch88/tech-performance/internal/adapters/mq/queue"
	"github.com/yorch88/tech-performance/pkg/logger"
	"github.com/yorch88/tech-performance/pkg/metrics"
)

// shutdownTimeout bounds how long Stop waits per worker.
const shutdownTimeout = 5 * time.Second

// Job is what workers read off the queue.
type Job = queue.Job

// Processor handles one report file end to end (read, compute, render,
// persist, archive). A returned error marks the file as failed; it must not
// affect sibling files.
type Processor interface {
	Process(ctx context.Context, job Job) error
}

// Source defines how workers receive jobs.
type Source interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker drains jobs from a source until stopped.
type Worker struct {
	source    Source
	processor Processor
	name      string
	done      chan struct{}
	log       logger.Logger
}

// Option applies a configuration option to a Worker.
type Option func(*Worker)

// WithName names the worker for logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
			w.log = logger.Named(name)
		}
	}
}

// NewWorker creates a worker bound to a job source and processor.
func NewWorker(source Source, processor Processor, opts ...Option) *Worker {
	w := &Worker{
		source:    source,
		processor: processor,
		name:      "worker",
		done:      make(chan struct{}),
		log:       logger.Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run consumes jobs until the context is cancelled or the source closes.
// A failing job is logged and skipped; the worker keeps going.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.source.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processor.Process(ctx, job); err != nil {
				metrics.RecordFileError()
				w.log.Error(ctx, "report file failed; skipping",
					logger.String("file", job.Name),
					logger.Error(err),
				)
				continue
			}
			metrics.RecordFileProcessed()
		}
	}
}

// Pool runs several workers over one source.
type Pool struct {
	workers []*Worker
	log     logger.Logger
}

// NewPool creates and wires count workers. A non-positive count defaults to
// one; the report workload is I/O-light and rarely needs more than a few.
func NewPool(count int, source Source, processor Processor) *Pool {
	if count < 1 {
		count = 1
	}
	p := &Pool{
		workers: make([]*Worker, count),
		log:     logger.Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewWorker(source, processor, WithName("worker-"+strconv.Itoa(i)))
	}
	metrics.UpdateWorkerCount(count)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.log.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Stop waits for every worker to drain, bounded per worker.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(shutdownTimeout):
		}
	}
}
