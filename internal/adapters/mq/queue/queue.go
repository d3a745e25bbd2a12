// Package queue provides the bounded in-memory job queue feeding the
// processing workers with discovered report files.
package queue

import (
	"context"
	"sync"

	"github.com/yorch88/tech-performance/internal/adapters/ingest"
	"github.com/yorch88/tech-performance/pkg/metrics"
)

// defaultCapacity bounds the queue when no option overrides it.
const defaultCapacity = 1024

// Job is the payload type flowing through the queue.
type Job = ingest.ReportFile

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. Returns false when the queue is full or closed.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns a channel delivering jobs as they become available.
	// The channel closes when the queue closes.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the number of queued jobs.
	Len(ctx context.Context) int

	// Close shuts the queue down; no further jobs can be enqueued.
	Close() error
}

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	jobs   chan Job
	mu     sync.RWMutex
	closed bool
}

// Option applies a configuration option to the queue.
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity bounds the number of queued jobs.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewInMemoryQueue creates a bounded in-memory job queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	cfg := config{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	metrics.UpdateQueueCapacity(cfg.capacity)
	metrics.UpdateQueueSize(0)
	return &InMemoryQueue{jobs: make(chan Job, cfg.capacity)}
}

// Enqueue adds a job without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordEnqueueError()
		return false
	}
	select {
	case q.jobs <- j:
		metrics.UpdateQueueSize(len(q.jobs))
		return true
	case <-ctx.Done():
		metrics.RecordEnqueueError()
		return false
	default:
		metrics.RecordEnqueueError()
		return false
	}
}

// Dequeue returns a channel delivering jobs until the queue closes or ctx is
// cancelled.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Job {
	out := make(chan Job)
	go func() {
		defer close(out)
		for j := range q.jobs {
			select {
			case out <- j:
				metrics.UpdateQueueSize(len(q.jobs))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the number of queued jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.jobs)
}

// Close shuts the queue down.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}
