package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CART DOMAIN TYPES
// =============================================================================

// CartLine is the stored form of a cart row. The JSON field names are part of the
// persisted snapshot format and must not change.
type CartLine struct {
	ProductID  string            `json:"id"`
	Quantity   int               `json:"qty"`
	Selections map[string]string `json:"v,omitempty"`
}

// DetailedCartLine is a CartLine resolved against the live catalog.
type DetailedCartLine struct {
	Key        string            `json:"key"`
	Product    Product           `json:"product"`
	Quantity   int               `json:"quantity"`
	UnitPrice  decimal.Decimal   `json:"unitPrice"`
	Total      decimal.Decimal   `json:"total"`
	Selections map[string]string `json:"variantSelections,omitempty"`
}

// CouponType enumerates how a coupon affects the cart.
type CouponType string

const (
	CouponPercent      CouponType = "percent"
	CouponFixed        CouponType = "fixed"
	CouponFreeShipping CouponType = "free_shipping"
)

// Coupon is an entry of the fixed coupon registry.
type Coupon struct {
	Code        string           `json:"code"`
	Type        CouponType       `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	MinSubtotal *decimal.Decimal `json:"minSubtotal,omitempty"`
	ExpiresAt   *time.Time       `json:"expiresAt,omitempty"`
}

// Expired reports whether the coupon has an expiry strictly before now.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// BelowMinimum reports whether subtotal does not reach the coupon threshold.
func (c Coupon) BelowMinimum(subtotal decimal.Decimal) bool {
	return c.MinSubtotal != nil && subtotal.LessThan(*c.MinSubtotal)
}
