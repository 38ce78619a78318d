package storage

import (
	"context"
	"sync"
)

// MockStore is a Store whose behavior is set per test.
// Unset funcs fall back to an internal MemoryStore.
type MockStore struct {
	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte) error

	mu       sync.Mutex
	mem      *MemoryStore
	SetCalls int
}

func (m *MockStore) memory() *MemoryStore {
	if m.mem == nil {
		m.mem = NewMemoryStore()
	}
	return m.mem
}

// Get calls GetFunc or reads the in-memory fallback.
func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return m.memory().Get(ctx, key)
}

// Set calls SetFunc or writes the in-memory fallback.
func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls++
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	return m.memory().Set(ctx, key, value)
}
