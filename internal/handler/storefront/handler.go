// Package storefront serves the JSON storefront API: catalog browsing, cart,
// wishlist, postal lookup and checkout.
package storefront

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/wagsales/internal/checkout"
	"github.com/dukerupert/wagsales/internal/handler"
	"github.com/dukerupert/wagsales/internal/router"
	"github.com/dukerupert/wagsales/internal/session"
	"github.com/dukerupert/wagsales/internal/telemetry"
)

// Handler serves every storefront route. Each request runs against the
// caller's session with the session lock held.
type Handler struct {
	sessions *session.Manager
	checkout *checkout.Service
	metrics  *telemetry.StoreMetrics
	logger   *slog.Logger
}

// New creates a storefront handler. metrics may be nil.
func New(sessions *session.Manager, checkout *checkout.Service, metrics *telemetry.StoreMetrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		sessions: sessions,
		checkout: checkout,
		metrics:  metrics,
		logger:   logger,
	}
}

// Register mounts the storefront routes on r.
func (h *Handler) Register(r *router.Router) {
	r.Get("/health", h.Health)

	r.Get("/catalog", h.CatalogInfo)
	r.Get("/offers", h.Offers)
	r.Get("/products", h.ListProducts)
	r.Get("/products/featured", h.FeaturedProducts)
	r.Get("/products/{slug}", h.ProductDetail)
	r.Get("/categories/{slug}", h.Category)

	r.Get("/cart", h.ViewCart)
	r.Delete("/cart", h.ClearCart)
	r.Post("/cart/items", h.AddItem)
	r.Put("/cart/items/{key}", h.UpdateItem)
	r.Delete("/cart/items/{key}", h.RemoveItem)
	r.Post("/cart/coupon", h.ApplyCoupon)
	r.Delete("/cart/coupon", h.RemoveCoupon)

	r.Get("/wishlist", h.ViewWishlist)
	r.Post("/wishlist/{id}", h.ToggleWishlist)

	r.Get("/postal/{cep}", h.PostalLookup)
	r.Post("/checkout", h.PlaceOrder)
}

// session resolves and locks the caller's session. The returned func unlocks it.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, func()) {
	s := h.sessions.FromRequest(w, r)
	s.Lock()
	return s, s.Unlock
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	handler.JSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	})
}
