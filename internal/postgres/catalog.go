package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/wagsales/internal/catalog"
	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Numerics are read as text so decimal parsing stays exact.
const listProductsSQL = `
SELECT id, name, slug, description, short_description,
       price::text AS price, original_price::text AS original_price,
       category, category_name, tags, images, thumbnail,
       stock, rating, review_count, brand, sku, variants,
       featured, is_new, bestseller, free_shipping, created_at
FROM products
ORDER BY position, id`

// CatalogSource reads the full catalog from the products table.
type CatalogSource struct {
	db Querier
}

var _ catalog.Source = (*CatalogSource)(nil)

// NewCatalogSource creates a catalog source backed by db.
func NewCatalogSource(db Querier) *CatalogSource {
	return &CatalogSource{db: db}
}

// AllProducts returns every product in catalog order.
func (s *CatalogSource) AllProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.Query(ctx, listProductsSQL)
	if err != nil {
		return nil, domain.Internal(err, "catalog.all_products", "failed to query products")
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[ProductRow])
	if err != nil {
		return nil, domain.Internal(err, "catalog.all_products", "failed to scan products")
	}

	products := make([]domain.Product, 0, len(records))
	for _, r := range records {
		p, err := r.Product()
		if err != nil {
			return nil, domain.Internal(err, "catalog.all_products", "malformed product row")
		}
		products = append(products, p)
	}
	return products, nil
}

// ProductRow is one row of the products table.
type ProductRow struct {
	ID               string    `db:"id"`
	Name             string    `db:"name"`
	Slug             string    `db:"slug"`
	Description      string    `db:"description"`
	ShortDescription string    `db:"short_description"`
	Price            string    `db:"price"`
	OriginalPrice    *string   `db:"original_price"`
	Category         string    `db:"category"`
	CategoryName     string    `db:"category_name"`
	Tags             []string  `db:"tags"`
	Images           []string  `db:"images"`
	Thumbnail        string    `db:"thumbnail"`
	Stock            int       `db:"stock"`
	Rating           float64   `db:"rating"`
	ReviewCount      int       `db:"review_count"`
	Brand            string    `db:"brand"`
	SKU              string    `db:"sku"`
	Variants         []byte    `db:"variants"`
	Featured         bool      `db:"featured"`
	IsNew            bool      `db:"is_new"`
	Bestseller       bool      `db:"bestseller"`
	FreeShipping     bool      `db:"free_shipping"`
	CreatedAt        time.Time `db:"created_at"`
}

// Product converts the row into a domain product.
func (r ProductRow) Product() (domain.Product, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: price: %w", r.ID, err)
	}

	p := domain.Product{
		ID:               r.ID,
		Name:             r.Name,
		Slug:             r.Slug,
		Description:      r.Description,
		ShortDescription: r.ShortDescription,
		Price:            price,
		Category:         r.Category,
		CategoryName:     r.CategoryName,
		Tags:             r.Tags,
		Images:           r.Images,
		Thumbnail:        r.Thumbnail,
		Stock:            r.Stock,
		Rating:           r.Rating,
		ReviewCount:      r.ReviewCount,
		Brand:            r.Brand,
		SKU:              r.SKU,
		Featured:         r.Featured,
		IsNew:            r.IsNew,
		Bestseller:       r.Bestseller,
		FreeShipping:     r.FreeShipping,
		CreatedAt:        r.CreatedAt,
	}

	if r.OriginalPrice != nil {
		orig, err := decimal.NewFromString(*r.OriginalPrice)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %s: original price: %w", r.ID, err)
		}
		p.OriginalPrice = &orig
	}

	if len(r.Variants) > 0 {
		if err := json.Unmarshal(r.Variants, &p.Variants); err != nil {
			return domain.Product{}, fmt.Errorf("product %s: variants: %w", r.ID, err)
		}
	}
	return p, nil
}
