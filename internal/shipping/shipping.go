package shipping

import (
	"github.com/shopspring/decimal"
)

// Policy prices shipping for a cart.
// Implementations can be flat, threshold-based or backed by a carrier quote.
type Policy interface {
	// Quote returns the shipping charge. It never returns a negative amount.
	Quote(params QuoteParams) decimal.Decimal
}

// QuoteParams contains what a policy may consider when pricing shipping.
type QuoteParams struct {
	Subtotal  decimal.Decimal
	ItemCount int

	// FreeShipping is set when an active coupon waives shipping.
	FreeShipping bool
}
