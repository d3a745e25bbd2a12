package repository

import (
	"context"
	"sync"
)

// defaultMaxRuns bounds retention when no option overrides it.
const defaultMaxRuns = 100

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithMaxRuns bounds how many runs are retained; the oldest are dropped
// first. Zero or negative means unbounded.
func WithMaxRuns(n int) Option {
	return func(s *MemStore) {
		s.maxRuns = n
	}
}

// MemStore is a mutex-guarded, bounded in-memory run store.
type MemStore struct {
	mu      sync.RWMutex
	runs    []Run // oldest first
	byID    map[string]int
	maxRuns int
}

// NewMemStore creates an in-memory run store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		byID:    make(map[string]int),
		maxRuns: defaultMaxRuns,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add records a completed run, evicting the oldest when over capacity.
func (s *MemStore) Add(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxRuns > 0 && len(s.runs) >= s.maxRuns {
		evicted := s.runs[0]
		s.runs = s.runs[1:]
		delete(s.byID, evicted.ID)
	}
	s.runs = append(s.runs, run)
	s.reindex()
	return nil
}

// reindex rebuilds the id index. Must be called with the lock held.
func (s *MemStore) reindex() {
	for i, r := range s.runs {
		s.byID[r.ID] = i
	}
}

// Get returns a run by id.
func (s *MemStore) Get(_ context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.byID[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return s.runs[i], nil
}

// List returns runs newest-first.
func (s *MemStore) List(_ context.Context) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Run, len(s.runs))
	for i, r := range s.runs {
		out[len(s.runs)-1-i] = r
	}
	return out, nil
}

// Latest returns the most recent run.
func (s *MemStore) Latest(_ context.Context) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.runs) == 0 {
		return Run{}, ErrNotFound
	}
	return s.runs[len(s.runs)-1], nil
}

// Count returns the number of retained runs.
func (s *MemStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
