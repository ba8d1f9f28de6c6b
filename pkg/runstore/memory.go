package runstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps run history in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
}

// NewMemoryStore creates an empty in-memory run store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*RunRecord)}
}

func (s *MemoryStore) SaveRun(_ context.Context, rec *RunRecord) error {
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("run record needs an ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[rec.ID]; exists {
		return fmt.Errorf("%w: %s", ErrRunExists, rec.ID)
	}

	cp := *rec
	s.runs[rec.ID] = &cp
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]*RunRecord, 0, len(s.runs))
	for _, rec := range s.runs {
		cp := *rec
		recs = append(recs, &cp)
	}

	// Newest first, ID as the tie-breaker.
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].StartedAt.Equal(recs[j].StartedAt) {
			return recs[i].StartedAt.After(recs[j].StartedAt)
		}
		return recs[i].ID < recs[j].ID
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

func (s *MemoryStore) DeleteRun(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	delete(s.runs, id)
	return nil
}

func (s *MemoryStore) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, rec := range s.runs {
		if rec.StartedAt.Before(cutoff) {
			delete(s.runs, id)
			n++
		}
	}
	return n, nil
}

// Ping always succeeds for the in-memory store.
func (s *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
