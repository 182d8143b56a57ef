package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/propcast/pkg/metrics"
)

const backendMemory = "memory"

// history is an immutable view; writers replace it whole.
type history struct {
	runs []Run // newest first
	byID map[string]int
}

// MemoryStore keeps the last N runs in process. Reads load a published
// snapshot without taking the write lock.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[history]
	settings settings
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{settings: newSettings(opts)}
	s.snapshot.Store(&history{byID: map[string]int{}})
	return s
}

// Save prepends run and drops runs beyond the history size.
func (s *MemoryStore) Save(_ context.Context, run Run) error {
	start := time.Now()
	if run.ID == "" {
		metrics.RecordStoreOperation(backendMemory, "save", "error", elapsedMs(start))
		return fmt.Errorf("%w: empty id", ErrInvalidRun)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snapshot.Load()
	runs := make([]Run, 0, min(len(prev.runs)+1, s.settings.historySize))
	runs = append(runs, run)
	for _, r := range prev.runs {
		if len(runs) == s.settings.historySize {
			break
		}
		if r.ID != run.ID {
			runs = append(runs, r)
		}
	}
	byID := make(map[string]int, len(runs))
	for i, r := range runs {
		byID[r.ID] = i
	}
	s.snapshot.Store(&history{runs: runs, byID: byID})

	metrics.RecordStoreOperation(backendMemory, "save", "ok", elapsedMs(start))
	return nil
}

// Get returns a run by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (Run, error) {
	h := s.snapshot.Load()
	i, ok := h.byID[id]
	if !ok {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return h.runs[i], nil
}

// Latest returns the newest run.
func (s *MemoryStore) Latest(_ context.Context) (Run, error) {
	h := s.snapshot.Load()
	if len(h.runs) == 0 {
		return Run{}, ErrNotFound
	}
	return h.runs[0], nil
}

// List returns up to limit summaries, newest first.
func (s *MemoryStore) List(_ context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	h := s.snapshot.Load()
	n := min(limit, len(h.runs))
	out := make([]Summary, n)
	for i := 0; i < n; i++ {
		out[i] = h.runs[i].Summary()
	}
	return out, nil
}

// Count returns the number of retained runs.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	return len(s.snapshot.Load().runs), nil
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
