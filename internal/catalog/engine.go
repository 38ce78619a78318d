package catalog

import (
	"slices"
	"strings"

	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/reactive"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// PageSize is the fixed number of products per result page.
	PageSize = 12

	// HighlightLimit caps the featured, bestseller and new-arrival shelves.
	HighlightLimit = 8
)

// Engine holds the product set and the query pipeline
// (search, filter, sort, page) and exposes derived views over them.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	products *reactive.State[[]domain.Product]
	query    *reactive.State[string]
	filter   *reactive.State[domain.ProductFilter]
	sortOpt  *reactive.State[domain.SortOption]
	page     *reactive.State[int]

	filtered    *reactive.Computed[[]domain.Product]
	results     *reactive.Computed[[]domain.Product]
	pageItems   *reactive.Computed[[]domain.Product]
	featured    *reactive.Computed[[]domain.Product]
	bestsellers *reactive.Computed[[]domain.Product]
	newArrivals *reactive.Computed[[]domain.Product]
	byID        *reactive.Computed[map[string]int]

	collator *collate.Collator
}

// NewEngine creates an engine over products with an empty query, relevance sort and page 1.
func NewEngine(products []domain.Product) *Engine {
	e := &Engine{
		products: reactive.NewState(slices.Clone(products)),
		query:    reactive.NewState(""),
		filter:   reactive.NewState(domain.ProductFilter{}),
		sortOpt:  reactive.NewState(domain.SortRelevance),
		page:     reactive.NewState(1),
		collator: collate.New(language.BrazilianPortuguese),
	}

	e.filtered = reactive.NewComputed(func() []domain.Product {
		return applyFilter(e.products.Get(), e.query.Get(), e.filter.Get())
	}, e.products, e.query, e.filter)

	e.results = reactive.NewComputed(func() []domain.Product {
		sorted := slices.Clone(e.filtered.Get())
		slices.SortStableFunc(sorted, e.comparator(e.sortOpt.Get()))
		return sorted
	}, e.filtered, e.sortOpt)

	e.pageItems = reactive.NewComputed(func() []domain.Product {
		all := e.results.Get()
		start := min((e.page.Get()-1)*PageSize, len(all))
		end := min(start+PageSize, len(all))
		return all[start:end]
	}, e.results, e.page)

	e.featured = e.shelf(func(p domain.Product) bool { return p.Featured })
	e.bestsellers = e.shelf(func(p domain.Product) bool { return p.Bestseller })
	e.newArrivals = e.shelf(func(p domain.Product) bool { return p.IsNew })

	e.byID = reactive.NewComputed(func() map[string]int {
		idx := make(map[string]int, len(e.products.Get()))
		for i, p := range e.products.Get() {
			if _, dup := idx[p.ID]; !dup {
				idx[p.ID] = i
			}
		}
		return idx
	}, e.products)

	return e
}

// shelf builds a view over the full catalog, independent of the query state.
func (e *Engine) shelf(keep func(domain.Product) bool) *reactive.Computed[[]domain.Product] {
	return reactive.NewComputed(func() []domain.Product {
		var out []domain.Product
		for _, p := range e.products.Get() {
			if len(out) == HighlightLimit {
				break
			}
			if keep(p) {
				out = append(out, p)
			}
		}
		return out
	}, e.products)
}

// Version changes whenever the product set changes.
func (e *Engine) Version() uint64 {
	return e.products.Version()
}

// =============================================================================
// QUERY MUTATIONS
// =============================================================================

// Search stores the trimmed, case-folded query and resets to page 1.
func (e *Engine) Search(query string) {
	e.query.Set(strings.ToLower(strings.TrimSpace(query)))
	e.page.Set(1)
}

// ApplyFilter replaces the structured filter entirely and resets to page 1.
func (e *Engine) ApplyFilter(filter domain.ProductFilter) {
	e.filter.Set(filter)
	e.page.Set(1)
}

// ApplySort changes the ordering. The current page is kept.
func (e *Engine) ApplySort(opt domain.SortOption) {
	e.sortOpt.Set(opt)
}

// SetPage moves to page n when 1 <= n <= TotalPages; any other value is ignored.
// It reports whether the page changed.
func (e *Engine) SetPage(n int) bool {
	if n < 1 || n > e.TotalPages() {
		return false
	}
	e.page.Set(n)
	return true
}

// ResetFilters clears the filter and search and returns to page 1. Sort is kept.
func (e *Engine) ResetFilters() {
	e.filter.Set(domain.ProductFilter{})
	e.query.Set("")
	e.page.Set(1)
}

// =============================================================================
// DERIVED READS
// =============================================================================

// Query returns the normalized search text.
func (e *Engine) Query() string { return e.query.Get() }

// Filter returns the active structured filter.
func (e *Engine) Filter() domain.ProductFilter { return e.filter.Get() }

// Sort returns the active sort option.
func (e *Engine) Sort() domain.SortOption { return e.sortOpt.Get() }

// CurrentPage returns the 1-based current page.
func (e *Engine) CurrentPage() int { return e.page.Get() }

// TotalCount is the number of products matching search and filter.
func (e *Engine) TotalCount() int {
	return len(e.filtered.Get())
}

// TotalPages is ceil(TotalCount / PageSize).
func (e *Engine) TotalPages() int {
	return (e.TotalCount() + PageSize - 1) / PageSize
}

// Results returns every matching product in sort order.
func (e *Engine) Results() []domain.Product {
	return slices.Clone(e.results.Get())
}

// CurrentPageItems returns the slice of Results for the current page.
func (e *Engine) CurrentPageItems() []domain.Product {
	return slices.Clone(e.pageItems.Get())
}

// Featured returns up to HighlightLimit featured products from the full catalog.
func (e *Engine) Featured() []domain.Product {
	return slices.Clone(e.featured.Get())
}

// Bestsellers returns up to HighlightLimit bestsellers from the full catalog.
func (e *Engine) Bestsellers() []domain.Product {
	return slices.Clone(e.bestsellers.Get())
}

// NewArrivals returns up to HighlightLimit new products from the full catalog.
func (e *Engine) NewArrivals() []domain.Product {
	return slices.Clone(e.newArrivals.Get())
}

// AllProducts returns the full product set in catalog order.
func (e *Engine) AllProducts() []domain.Product {
	return slices.Clone(e.products.Get())
}
