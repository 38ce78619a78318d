package catalog

import (
	"slices"
	"strings"

	"github.com/dukerupert/wagsales/internal/domain"
)

// applyFilter keeps the products matching the text query and every active filter
// dimension. Within a set-valued dimension any member matches.
func applyFilter(products []domain.Product, query string, f domain.ProductFilter) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if !matchesFilter(p, f) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// matchesQuery expects query to be lower-cased already.
func matchesQuery(p domain.Product, query string) bool {
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), query)
	}

	if contains(p.Name) || contains(p.Description) || contains(p.ShortDescription) {
		return true
	}
	if slices.ContainsFunc(p.Tags, contains) {
		return true
	}
	return contains(p.Brand) || contains(p.CategoryName)
}

func matchesFilter(p domain.Product, f domain.ProductFilter) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if f.PriceRange != nil {
		if p.Price.LessThan(f.PriceRange.Min) || p.Price.GreaterThan(f.PriceRange.Max) {
			return false
		}
	}
	if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, func(tag string) bool {
		return slices.Contains(p.Tags, tag)
	}) {
		return false
	}
	if f.MinRating != nil && p.Rating < *f.MinRating {
		return false
	}
	if f.InStock && !p.InStock() {
		return false
	}
	if f.FreeShipping && !p.FreeShipping {
		return false
	}
	if f.Featured && !p.Featured {
		return false
	}
	if f.IsNew && !p.IsNew {
		return false
	}
	return true
}
