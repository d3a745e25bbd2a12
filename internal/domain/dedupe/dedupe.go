// Package dedupe tracks already-processed identifiers so the poller does not
// hand the same report file to the workers twice.
package dedupe

import (
	"context"
	"sync"
)

// defaultMaxSize bounds the seen-set when no option overrides it.
const defaultMaxSize = 10_000

// Tracker records seen identifiers for at-most-once processing.
type Tracker interface {
	// SeenAndRecord atomically checks whether id was seen and records it if
	// not. Returns true when id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes id from the seen set so it can be retried, e.g. after
	// a processing failure.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of tracked identifiers.
	Size() int
}

// Option applies a configuration option to the tracker.
type Option func(*memTracker)

// WithMaxSize bounds the seen-set; the oldest entries are evicted first.
// Zero or negative means unbounded.
func WithMaxSize(n int) Option {
	return func(t *memTracker) {
		t.maxSize = n
	}
}

// memTracker is a mutex-guarded seen-set with FIFO eviction.
type memTracker struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string
	maxSize int
}

// NewTracker creates an in-memory tracker.
func NewTracker(opts ...Option) Tracker {
	t := &memTracker{
		seen:    make(map[string]struct{}),
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *memTracker) SeenAndRecord(_ context.Context, id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; ok {
		return true
	}
	if t.maxSize > 0 && len(t.seen) >= t.maxSize {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.seen, oldest)
	}
	t.seen[id] = struct{}{}
	t.order = append(t.order, id)
	return false
}

func (t *memTracker) Unrecord(_ context.Context, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.seen[id]; !ok {
		return
	}
	delete(t.seen, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *memTracker) Size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}
