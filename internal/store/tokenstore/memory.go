package tokenstore

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemory builds a process-local store. Nothing survives the process.
func NewMemory() Store {
	return &memoryStore{}
}

func (s *memoryStore) Read(context.Context) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != "", nil
}

func (s *memoryStore) Write(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = normalize(token)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Source() string { return DriverMemory }

func (s *memoryStore) Close() error { return nil }
