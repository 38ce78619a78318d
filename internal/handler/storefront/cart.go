package storefront

import (
	"errors"
	"net/http"

	"github.com/dukerupert/wagsales/internal/cart"
	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/handler"
)

type addItemRequest struct {
	ProductID  string            `json:"productId"`
	Quantity   int               `json:"quantity"`
	Selections map[string]string `json:"selections,omitempty"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type couponRequest struct {
	Code string `json:"code"`
}

// ViewCart handles GET /cart
func (h *Handler) ViewCart(w http.ResponseWriter, r *http.Request) {
	s, unlock := h.session(w, r)
	defer unlock()

	handler.JSON(w, http.StatusOK, s.Cart.Summary())
}

// AddItem handles POST /cart/items
//
// The quantity is clamped to the stock available for the selected variant.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := handler.DecodeJSON(w, r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	if req.ProductID == "" {
		handler.ErrorResponse(w, r, domain.NewValidationError("cart.add", "productId", "is required"))
		return
	}

	s, unlock := h.session(w, r)
	defer unlock()

	p, ok := s.Catalog.ProductByID(req.ProductID)
	if !ok {
		handler.ErrorResponse(w, r, domain.NotFound("cart.add", "product", req.ProductID))
		return
	}

	s.Cart.Add(p, req.Quantity, req.Selections)
	h.metrics.RecordAddToCart(p.ID)

	handler.JSON(w, http.StatusOK, s.Cart.Summary())
}

// UpdateItem handles PUT /cart/items/{key}
//
// A quantity of zero or less removes the line. Unknown keys are ignored.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := handler.DecodeJSON(w, r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	s, unlock := h.session(w, r)
	defer unlock()

	s.Cart.UpdateQuantity(r.PathValue("key"), req.Quantity)
	handler.JSON(w, http.StatusOK, s.Cart.Summary())
}

// RemoveItem handles DELETE /cart/items/{key}
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s, unlock := h.session(w, r)
	defer unlock()

	s.Cart.Remove(r.PathValue("key"))
	handler.JSON(w, http.StatusOK, s.Cart.Summary())
}

// ClearCart handles DELETE /cart
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, unlock := h.session(w, r)
	defer unlock()

	s.Cart.Clear()
	handler.JSON(w, http.StatusOK, s.Cart.Summary())
}

// ApplyCoupon handles POST /cart/coupon
func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := handler.DecodeJSON(w, r, &req); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	s, unlock := h.session(w, r)
	defer unlock()

	err := s.Cart.ApplyCoupon(req.Code)
	h.metrics.RecordCoupon(couponResult(err))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, s.Cart.Summary())
}

// RemoveCoupon handles DELETE /cart/coupon
func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	s, unlock := h.session(w, r)
	defer unlock()

	s.Cart.RemoveCoupon()
	handler.JSON(w, http.StatusOK, s.Cart.Summary())
}

func couponResult(err error) string {
	switch {
	case err == nil:
		return "applied"
	case errors.Is(err, cart.ErrCouponRequired):
		return "empty"
	case errors.Is(err, cart.ErrInvalidCoupon):
		return "invalid"
	case errors.Is(err, cart.ErrExpiredCoupon):
		return "expired"
	default:
		return "below_minimum"
	}
}
