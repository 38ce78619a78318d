package catalog

import (
	"context"
	"slices"

	"github.com/dukerupert/wagsales/internal/domain"
)

// Source is the only input contract of the catalog: something that can return
// every product. The static seed list and the Postgres table both satisfy it.
type Source interface {
	AllProducts(ctx context.Context) ([]domain.Product, error)
}

// StaticSource serves a fixed in-memory product list.
type StaticSource struct {
	products []domain.Product
}

// NewStaticSource creates a source over products. A nil slice serves the seed catalog.
func NewStaticSource(products []domain.Product) *StaticSource {
	if products == nil {
		products = SeedProducts()
	}
	return &StaticSource{products: products}
}

// AllProducts returns a copy of the product list.
func (s *StaticSource) AllProducts(ctx context.Context) ([]domain.Product, error) {
	return slices.Clone(s.products), nil
}

// LoadProducts reads every product from src. A failing source is reported as
// EUNAVAILABLE.
func LoadProducts(ctx context.Context, src Source) ([]domain.Product, error) {
	products, err := src.AllProducts(ctx)
	if err != nil {
		return nil, domain.WrapError(err, domain.EUNAVAILABLE, "catalog.load", "failed to load products")
	}
	return products, nil
}
