package catalog

import (
	"slices"

	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/shopspring/decimal"
)

// RelatedLimit is the default number of related products.
const RelatedLimit = 4

// Stats summarizes the full catalog.
type Stats struct {
	Total       int `json:"total"`
	Featured    int `json:"featured"`
	Bestsellers int `json:"bestsellers"`
	New         int `json:"new"`
	InStock     int `json:"inStock"`
	Categories  int `json:"categories"`
	Brands      int `json:"brands"`
}

// ProductByID looks up a product by id.
func (e *Engine) ProductByID(id string) (domain.Product, bool) {
	i, ok := e.byID.Get()[id]
	if !ok {
		return domain.Product{}, false
	}
	return e.products.Get()[i], true
}

// ProductBySlug looks up a product by slug.
func (e *Engine) ProductBySlug(slug string) (domain.Product, bool) {
	for _, p := range e.products.Get() {
		if p.Slug == slug {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Related returns up to limit other products from the same category.
// A non-positive limit uses RelatedLimit.
func (e *Engine) Related(id string, limit int) []domain.Product {
	if limit <= 0 {
		limit = RelatedLimit
	}
	product, ok := e.ProductByID(id)
	if !ok {
		return nil
	}

	var out []domain.Product
	for _, p := range e.products.Get() {
		if len(out) == limit {
			break
		}
		if p.Category == product.Category && p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

// ByCategory returns every product in the category slug.
func (e *Engine) ByCategory(slug string) []domain.Product {
	var out []domain.Product
	for _, p := range e.products.Get() {
		if p.Category == slug {
			out = append(out, p)
		}
	}
	return out
}

// Offers returns every discounted product.
func (e *Engine) Offers() []domain.Product {
	var out []domain.Product
	for _, p := range e.products.Get() {
		if p.DiscountPercent() > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Stats computes catalog-wide counters.
func (e *Engine) Stats() Stats {
	products := e.products.Get()
	categories := make(map[string]struct{})
	brands := make(map[string]struct{})

	s := Stats{
		Total:       len(products),
		Featured:    len(e.featured.Get()),
		Bestsellers: len(e.bestsellers.Get()),
		New:         len(e.newArrivals.Get()),
	}
	for _, p := range products {
		if p.InStock() {
			s.InStock++
		}
		categories[p.Category] = struct{}{}
		brands[p.Brand] = struct{}{}
	}
	s.Categories = len(categories)
	s.Brands = len(brands)
	return s
}

// Brands returns the sorted distinct brands.
func (e *Engine) Brands() []string {
	var out []string
	for _, p := range e.products.Get() {
		out = append(out, p.Brand)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Tags returns the sorted distinct tags.
func (e *Engine) Tags() []string {
	var out []string
	for _, p := range e.products.Get() {
		out = append(out, p.Tags...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// PriceRange returns the cheapest and most expensive base prices.
// An empty catalog yields a zero range.
func (e *Engine) PriceRange() domain.PriceRange {
	products := e.products.Get()
	if len(products) == 0 {
		return domain.PriceRange{Min: decimal.Zero, Max: decimal.Zero}
	}

	r := domain.PriceRange{Min: products[0].Price, Max: products[0].Price}
	for _, p := range products[1:] {
		if p.Price.LessThan(r.Min) {
			r.Min = p.Price
		}
		if p.Price.GreaterThan(r.Max) {
			r.Max = p.Price
		}
	}
	return r
}
