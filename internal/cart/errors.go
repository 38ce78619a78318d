package cart

import "github.com/dukerupert/wagsales/internal/domain"

// Coupon errors. The messages are shown to shoppers as-is.
var (
	ErrInvalidCoupon = &domain.Error{
		Code:    domain.EINVALID,
		Op:      "cart.apply_coupon",
		Message: "invalid coupon",
	}

	ErrExpiredCoupon = &domain.Error{
		Code:    domain.EINVALID,
		Op:      "cart.apply_coupon",
		Message: "expired coupon",
	}

	ErrCouponRequired = &domain.Error{
		Code:    domain.EINVALID,
		Op:      "cart.apply_coupon",
		Message: "coupon code is required",
	}
)

// errBelowMinimum describes the subtotal a coupon needs.
func errBelowMinimum(c domain.Coupon) error {
	return domain.Errorf(domain.EINVALID, "cart.apply_coupon",
		"minimum subtotal of R$ %s required", c.MinSubtotal.StringFixed(2))
}
