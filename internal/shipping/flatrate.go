package shipping

import (
	"github.com/shopspring/decimal"
)

// Storefront defaults: free shipping from R$ 199, otherwise a flat R$ 19,90.
var (
	DefaultFreeFrom = decimal.NewFromInt(199)
	DefaultFlatRate = decimal.RequireFromString("19.90")
)

// ThresholdPolicy charges a flat rate until the subtotal reaches FreeFrom.
type ThresholdPolicy struct {
	FreeFrom decimal.Decimal
	FlatRate decimal.Decimal
}

// NewThresholdPolicy creates a threshold policy.
func NewThresholdPolicy(freeFrom, flatRate decimal.Decimal) Policy {
	return &ThresholdPolicy{FreeFrom: freeFrom, FlatRate: flatRate}
}

// DefaultPolicy returns the storefront's standard threshold policy.
func DefaultPolicy() Policy {
	return NewThresholdPolicy(DefaultFreeFrom, DefaultFlatRate)
}

// Quote is zero for an empty cart, a free-shipping coupon, or a subtotal at or
// above FreeFrom. Anything else pays FlatRate.
func (p *ThresholdPolicy) Quote(params QuoteParams) decimal.Decimal {
	if params.ItemCount == 0 || params.FreeShipping {
		return decimal.Zero
	}
	if params.Subtotal.GreaterThanOrEqual(p.FreeFrom) {
		return decimal.Zero
	}
	return p.FlatRate
}
