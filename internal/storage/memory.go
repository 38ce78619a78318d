package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps values in process memory. It is the default for development
// and the backing store in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Get returns a copy of the value under key.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return slices.Clone(v), nil
}

// Set stores a copy of value under key.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = slices.Clone(value)
	return nil
}

// NoopStore discards writes and never finds anything. It stands in for storage
// in execution contexts that have no persistent storage.
type NoopStore struct{}

// Get always returns ErrKeyNotFound.
func (NoopStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrKeyNotFound
}

// Set discards the value.
func (NoopStore) Set(ctx context.Context, key string, value []byte) error {
	return nil
}
