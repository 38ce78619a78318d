package storefront

import (
	"net/http"

	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/handler"
)

// ViewWishlist handles GET /wishlist
func (h *Handler) ViewWishlist(w http.ResponseWriter, r *http.Request) {
	s, unlock := h.session(w, r)
	defer unlock()

	handler.JSON(w, http.StatusOK, map[string]any{
		"ids":      s.Wishlist.IDs(),
		"count":    s.Wishlist.Count(),
		"products": viewsOf(s.Wishlist.Products(s.Catalog)),
	})
}

// ToggleWishlist handles POST /wishlist/{id}
//
// Only catalog products can be saved; a saved id can always be removed.
func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s, unlock := h.session(w, r)
	defer unlock()

	if !s.Wishlist.Has(id) {
		if _, ok := s.Catalog.ProductByID(id); !ok {
			handler.ErrorResponse(w, r, domain.NotFound("wishlist.toggle", "product", id))
			return
		}
	}

	saved := s.Wishlist.Toggle(id)
	handler.JSON(w, http.StatusOK, map[string]any{
		"id":    id,
		"saved": saved,
		"count": s.Wishlist.Count(),
	})
}
