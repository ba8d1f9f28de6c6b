package archive

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend keeps artifacts in process memory. Intended for tests and
// throwaway runs.
type MemoryBackend struct {
	mu   sync.RWMutex
	objs map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{objs: make(map[string][]byte)}
}

func (s *MemoryBackend) Name() string { return BackendMemory }

func (s *MemoryBackend) Put(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objs[key]; exists {
		return fmt.Errorf("%w: %s", ErrArtifactExists, key)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objs[key] = cp
	return nil
}

func (s *MemoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	data, ok := s.objs[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, key)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemoryBackend) List(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.objs))
	for k := range s.objs {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryBackend) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objs[key]
	if ok {
		delete(s.objs, key)
	}
	return ok, nil
}
