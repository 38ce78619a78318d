package storefront

import (
	"net/http"

	"github.com/dukerupert/wagsales/internal/checkout"
	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/handler"
	"github.com/dukerupert/wagsales/internal/middleware"
	"github.com/dukerupert/wagsales/internal/postal"
)

// PostalLookup handles GET /postal/{cep}
func (h *Handler) PostalLookup(w http.ResponseWriter, r *http.Request) {
	cep, err := postal.Normalize(r.PathValue("cep"))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	addr := h.checkout.FillAddress(r.Context(), cep)
	if r.Context().Err() != nil {
		return
	}
	if addr == nil {
		handler.ErrorResponse(w, r, postal.ErrNotFound)
		return
	}
	handler.JSON(w, http.StatusOK, addr)
}

// PlaceOrder handles POST /checkout
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var details checkout.Details
	if err := handler.DecodeJSON(w, r, &details); err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	s, unlock := h.session(w, r)
	defer unlock()

	order, err := h.checkout.PlaceOrder(r.Context(), s.Cart, details)
	if err != nil {
		if fields := domain.GetValidationFields(err); fields != nil {
			handler.ValidationErrorResponse(w, r, err)
			return
		}
		handler.ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context(), h.logger).Info("checkout completed",
		"order_number", order.Number,
		"session_id", s.ID,
	)
	handler.JSON(w, http.StatusCreated, order)
}
