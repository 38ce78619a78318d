package storefront

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dukerupert/wagsales/internal/catalog"
	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/handler"
	"github.com/shopspring/decimal"
)

// productView adds the derived fields clients render badges from.
type productView struct {
	domain.Product
	InStock         bool `json:"inStock"`
	LowStock        bool `json:"lowStock"`
	DiscountPercent int  `json:"discountPercent"`
}

func viewOf(p domain.Product) productView {
	return productView{
		Product:         p,
		InStock:         p.InStock(),
		LowStock:        p.LowStock(),
		DiscountPercent: p.DiscountPercent(),
	}
}

func viewsOf(products []domain.Product) []productView {
	out := make([]productView, len(products))
	for i, p := range products {
		out[i] = viewOf(p)
	}
	return out
}

type listResponse struct {
	Items      []productView        `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"totalPages"`
	PageSize   int                  `json:"pageSize"`
	Query      string               `json:"query"`
	Filter     domain.ProductFilter `json:"filter"`
	Sort       domain.SortOption    `json:"sort"`
}

// ListProducts handles GET /products
//
// Every request restates the whole query: q, category, brand, tag,
// min_price, max_price, rating, in_stock, free_shipping, featured, new,
// sort and page. An out-of-range page is ignored.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	s, unlock := h.session(w, r)
	defer unlock()

	filter, dimensions, err := parseFilter(params, s.Catalog)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	query := strings.TrimSpace(params.Get("q"))
	e := s.Catalog
	e.Search(query)
	e.ApplyFilter(filter)
	e.ApplySort(domain.ParseSortOption(params.Get("sort")))
	if p := params.Get("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			e.SetPage(n)
		}
	}

	h.metrics.RecordSearch(query)
	h.metrics.RecordFilter(dimensions...)

	handler.JSON(w, http.StatusOK, listResponse{
		Items:      viewsOf(e.CurrentPageItems()),
		Total:      e.TotalCount(),
		Page:       e.CurrentPage(),
		TotalPages: e.TotalPages(),
		PageSize:   catalog.PageSize,
		Query:      e.Query(),
		Filter:     e.Filter(),
		Sort:       e.Sort(),
	})
}

// parseFilter builds a filter from query parameters and names the active
// dimensions for metrics.
func parseFilter(params url.Values, e *catalog.Engine) (domain.ProductFilter, []string, error) {
	var (
		f    domain.ProductFilter
		dims []string
	)

	if v := multi(params, "category"); len(v) > 0 {
		f.Categories = v
		dims = append(dims, "category")
	}
	if v := multi(params, "brand"); len(v) > 0 {
		f.Brands = v
		dims = append(dims, "brand")
	}
	if v := multi(params, "tag"); len(v) > 0 {
		f.Tags = v
		dims = append(dims, "tag")
	}

	minRaw, maxRaw := params.Get("min_price"), params.Get("max_price")
	if minRaw != "" || maxRaw != "" {
		bounds := e.PriceRange()
		r := domain.PriceRange{Min: decimal.Zero, Max: bounds.Max}
		if minRaw != "" {
			v, err := decimal.NewFromString(minRaw)
			if err != nil {
				return f, nil, domain.NewValidationError("catalog.filter", "min_price", "must be a number")
			}
			r.Min = v
		}
		if maxRaw != "" {
			v, err := decimal.NewFromString(maxRaw)
			if err != nil {
				return f, nil, domain.NewValidationError("catalog.filter", "max_price", "must be a number")
			}
			r.Max = v
		}
		f.PriceRange = &r
		dims = append(dims, "price")
	}

	if raw := params.Get("rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 5 {
			return f, nil, domain.NewValidationError("catalog.filter", "rating", "must be between 0 and 5")
		}
		f.MinRating = &v
		dims = append(dims, "rating")
	}

	flags := []struct {
		param string
		dst   *bool
	}{
		{"in_stock", &f.InStock},
		{"free_shipping", &f.FreeShipping},
		{"featured", &f.Featured},
		{"new", &f.IsNew},
	}
	for _, fl := range flags {
		if on, _ := strconv.ParseBool(params.Get(fl.param)); on {
			*fl.dst = true
			dims = append(dims, fl.param)
		}
	}

	return f, dims, nil
}

// multi reads a parameter given repeatedly or as a comma separated list.
func multi(params url.Values, key string) []string {
	var out []string
	for _, raw := range params[key] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// FeaturedProducts handles GET /products/featured
func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	s, unlock := h.session(w, r)
	defer unlock()

	handler.JSON(w, http.StatusOK, map[string][]productView{
		"featured":    viewsOf(s.Catalog.Featured()),
		"bestsellers": viewsOf(s.Catalog.Bestsellers()),
		"newArrivals": viewsOf(s.Catalog.NewArrivals()),
	})
}

// ProductDetail handles GET /products/{slug}
func (h *Handler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	s, unlock := h.session(w, r)
	defer unlock()

	p, ok := s.Catalog.ProductBySlug(slug)
	if !ok {
		handler.ErrorResponse(w, r, domain.NotFound("catalog.product", "product", slug))
		return
	}

	handler.JSON(w, http.StatusOK, map[string]any{
		"product":    viewOf(p),
		"related":    viewsOf(s.Catalog.Related(p.ID, catalog.RelatedLimit)),
		"inWishlist": s.Wishlist.Has(p.ID),
	})
}

// Category handles GET /categories/{slug}
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	s, unlock := h.session(w, r)
	defer unlock()

	products := s.Catalog.ByCategory(slug)
	if len(products) == 0 {
		handler.ErrorResponse(w, r, domain.NotFound("catalog.category", "category", slug))
		return
	}
	handler.JSON(w, http.StatusOK, map[string]any{
		"category": slug,
		"items":    viewsOf(products),
	})
}

// Offers handles GET /offers
func (h *Handler) Offers(w http.ResponseWriter, r *http.Request) {
	s, unlock := h.session(w, r)
	defer unlock()

	handler.JSON(w, http.StatusOK, map[string]any{
		"items": viewsOf(s.Catalog.Offers()),
	})
}

// CatalogInfo handles GET /catalog with the facets a filter panel needs.
func (h *Handler) CatalogInfo(w http.ResponseWriter, r *http.Request) {
	s, unlock := h.session(w, r)
	defer unlock()

	handler.JSON(w, http.StatusOK, map[string]any{
		"stats":      s.Catalog.Stats(),
		"brands":     s.Catalog.Brands(),
		"tags":       s.Catalog.Tags(),
		"priceRange": s.Catalog.PriceRange(),
	})
}
