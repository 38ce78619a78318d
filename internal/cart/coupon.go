package cart

import (
	"strings"
	"time"

	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/shopspring/decimal"
)

// CouponRegistry resolves coupon codes.
type CouponRegistry interface {
	// Lookup finds a coupon by code, ignoring case and surrounding whitespace.
	Lookup(code string) (domain.Coupon, bool)
}

// StaticRegistry is a fixed, read-only set of coupons.
type StaticRegistry struct {
	coupons map[string]domain.Coupon
}

// NewStaticRegistry indexes coupons by their upper-cased code.
// A nil slice uses DefaultCoupons.
func NewStaticRegistry(coupons []domain.Coupon) *StaticRegistry {
	if coupons == nil {
		coupons = DefaultCoupons()
	}
	r := &StaticRegistry{coupons: make(map[string]domain.Coupon, len(coupons))}
	for _, c := range coupons {
		r.coupons[normalizeCode(c.Code)] = c
	}
	return r
}

// Lookup implements CouponRegistry.
func (r *StaticRegistry) Lookup(code string) (domain.Coupon, bool) {
	c, ok := r.coupons[normalizeCode(code)]
	return c, ok
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DefaultCoupons is the storefront's coupon table.
func DefaultCoupons() []domain.Coupon {
	minimum := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	blackFriday := time.Date(2024, 11, 30, 23, 59, 59, 0, time.UTC)

	return []domain.Coupon{
		{Code: "BEMVINDO10", Type: domain.CouponPercent, Value: decimal.NewFromInt(10), MinSubtotal: minimum(100)},
		{Code: "FRETEGRATIS", Type: domain.CouponFreeShipping},
		{Code: "DESCONTO50", Type: domain.CouponFixed, Value: decimal.NewFromInt(50), MinSubtotal: minimum(300)},
		{Code: "BLACKFRIDAY", Type: domain.CouponPercent, Value: decimal.NewFromInt(25), ExpiresAt: &blackFriday},
	}
}
