package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps the snapshot in process memory. Used in tests and for
// throwaway runs.
type MemoryStore struct {
	name string
	mu   sync.RWMutex
	data []byte
	set  bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore(name string) *MemoryStore {
	return &MemoryStore{name: name}
}

// Name implements Store.
func (s *MemoryStore) Name() string { return s.name }

// Load implements Store.
func (s *MemoryStore) Load(_ context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return nil, ErrSnapshotMissing
	}
	return append([]byte(nil), s.data...), nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.set = true
	return nil
}
