package catalog

import (
	"cmp"

	"github.com/dukerupert/wagsales/internal/domain"
)

// comparator returns the ordering for opt. Results are sorted stably, so
// products that compare equal keep their catalog order.
func (e *Engine) comparator(opt domain.SortOption) func(a, b domain.Product) int {
	switch opt {
	case domain.SortPriceAsc:
		return func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case domain.SortPriceDesc:
		return func(a, b domain.Product) int { return b.Price.Cmp(a.Price) }
	case domain.SortNameAsc:
		return func(a, b domain.Product) int { return e.collator.CompareString(a.Name, b.Name) }
	case domain.SortNameDesc:
		return func(a, b domain.Product) int { return e.collator.CompareString(b.Name, a.Name) }
	case domain.SortRatingDesc:
		return func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case domain.SortNewest:
		return func(a, b domain.Product) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case domain.SortBestseller:
		return func(a, b domain.Product) int {
			if c := flagFirst(a.Bestseller, b.Bestseller); c != 0 {
				return c
			}
			return cmp.Compare(b.ReviewCount, a.ReviewCount)
		}
	default:
		return relevance
	}
}

// relevance ranks merchandising flags ahead of numeric signals:
// featured, then bestseller, then rating, then review count.
func relevance(a, b domain.Product) int {
	if c := flagFirst(a.Featured, b.Featured); c != 0 {
		return c
	}
	if c := flagFirst(a.Bestseller, b.Bestseller); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Rating, a.Rating); c != 0 {
		return c
	}
	return cmp.Compare(b.ReviewCount, a.ReviewCount)
}

// flagFirst orders true before false.
func flagFirst(a, b bool) int {
	switch {
	case a && !b:
		return -1
	case !a && b:
		return 1
	default:
		return 0
	}
}
