package shipping

import (
	"github.com/shopspring/decimal"
)

// MockPolicy is a test implementation of Policy.
type MockPolicy struct {
	QuoteFunc func(params QuoteParams) decimal.Decimal
	Calls     []QuoteParams
}

// NewMockPolicy creates a mock policy that charges nothing unless QuoteFunc is set.
func NewMockPolicy() *MockPolicy {
	return &MockPolicy{}
}

// Quote records the call and delegates to QuoteFunc.
func (m *MockPolicy) Quote(params QuoteParams) decimal.Decimal {
	m.Calls = append(m.Calls, params)
	if m.QuoteFunc != nil {
		return m.QuoteFunc(params)
	}
	return decimal.Zero
}
