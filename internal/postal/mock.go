package postal

import (
	"context"

	"github.com/dukerupert/wagsales/internal/domain"
)

// MockLookup is a test implementation of Lookup backed by a fixed table.
type MockLookup struct {
	Addresses  map[string]domain.Address
	LookupFunc func(ctx context.Context, code string) (*domain.Address, error)
	Calls      []string
}

// NewMockLookup creates a mock that knows addresses, keyed by 8-digit code.
func NewMockLookup(addresses map[string]domain.Address) *MockLookup {
	return &MockLookup{Addresses: addresses}
}

// Lookup delegates to LookupFunc or the address table.
func (m *MockLookup) Lookup(ctx context.Context, code string) (*domain.Address, error) {
	m.Calls = append(m.Calls, code)
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, code)
	}

	cep, err := Normalize(code)
	if err != nil {
		return nil, err
	}
	addr, ok := m.Addresses[cep]
	if !ok {
		return nil, ErrNotFound
	}
	addr.PostalCode = cep
	return &addr, nil
}
