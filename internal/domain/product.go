package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// VariantType enumerates the kinds of selectable product variants.
type VariantType string

const (
	VariantColor    VariantType = "color"
	VariantSize     VariantType = "size"
	VariantMaterial VariantType = "material"
	VariantOther    VariantType = "other"
)

// LowStockThreshold is the stock level at or below which a product is flagged as low stock.
const LowStockThreshold = 5

// Product is a catalog entry. Products are immutable for the lifetime of a session
// and only the catalog creates them.
type Product struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Slug             string           `json:"slug"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"shortDescription,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	OriginalPrice    *decimal.Decimal `json:"originalPrice,omitempty"`
	Category         string           `json:"category"`
	CategoryName     string           `json:"categoryName"`
	Tags             []string         `json:"tags"`
	Images           []string         `json:"images,omitempty"`
	Thumbnail        string           `json:"thumbnail,omitempty"`
	Stock            int              `json:"stock"`
	Rating           float64          `json:"rating"`
	ReviewCount      int              `json:"reviewCount"`
	Brand            string           `json:"brand"`
	SKU              string           `json:"sku,omitempty"`
	Variants         []ProductVariant `json:"variants,omitempty"`

	// Merchandising flags
	Featured     bool `json:"featured"`
	IsNew        bool `json:"isNew"`
	Bestseller   bool `json:"bestseller"`
	FreeShipping bool `json:"freeShipping"`

	CreatedAt time.Time `json:"createdAt"`
}

// ProductVariant is a selectable option of a product. A (Type, Value) pair is
// unique within a product.
type ProductVariant struct {
	ID            string           `json:"id"`
	Type          VariantType      `json:"type"`
	Name          string           `json:"name"`
	Value         string           `json:"value"`
	PriceModifier *decimal.Decimal `json:"priceModifier,omitempty"`
	StockModifier *int             `json:"stockModifier,omitempty"`
}

// InStock reports whether any base stock is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// LowStock reports whether the product is in stock but at or below LowStockThreshold.
func (p Product) LowStock() bool {
	return p.Stock > 0 && p.Stock <= LowStockThreshold
}

// DiscountPercent returns the rounded percentage between OriginalPrice and Price,
// or 0 when the product is not discounted.
func (p Product) DiscountPercent() int {
	if p.OriginalPrice == nil || !p.OriginalPrice.GreaterThan(p.Price) {
		return 0
	}
	off := p.OriginalPrice.Sub(p.Price).Div(*p.OriginalPrice).Mul(decimal.NewFromInt(100))
	return int(off.Round(0).IntPart())
}

// Variant finds the variant matching a (type, value) selection.
func (p Product) Variant(typ, value string) (ProductVariant, bool) {
	for _, v := range p.Variants {
		if string(v.Type) == typ && v.Value == value {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// UnitPrice resolves the base price plus the price modifiers of every selected variant.
// Selections that match no variant are ignored.
func (p Product) UnitPrice(selections map[string]string) decimal.Decimal {
	price := p.Price
	for typ, value := range selections {
		if v, ok := p.Variant(typ, value); ok && v.PriceModifier != nil {
			price = price.Add(*v.PriceModifier)
		}
	}
	return price
}

// EffectiveStock is the base stock plus the stock modifiers of every selected
// variant, floored at zero.
func (p Product) EffectiveStock(selections map[string]string) int {
	stock := p.Stock
	for typ, value := range selections {
		if v, ok := p.Variant(typ, value); ok && v.StockModifier != nil {
			stock += *v.StockModifier
		}
	}
	return max(0, stock)
}

// =============================================================================
// CATALOG QUERY TYPES
// =============================================================================

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// ProductFilter is the structured part of a catalog query. Nil or empty fields
// are not applied.
type ProductFilter struct {
	Categories   []string    `json:"categories,omitempty"`
	PriceRange   *PriceRange `json:"priceRange,omitempty"`
	Brands       []string    `json:"brands,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	MinRating    *float64    `json:"rating,omitempty"`
	InStock      bool        `json:"inStock,omitempty"`
	FreeShipping bool        `json:"freeShipping,omitempty"`
	Featured     bool        `json:"featured,omitempty"`
	IsNew        bool        `json:"isNew,omitempty"`
}

// IsZero reports whether the filter has no active dimension.
func (f ProductFilter) IsZero() bool {
	return len(f.Categories) == 0 && f.PriceRange == nil && len(f.Brands) == 0 &&
		len(f.Tags) == 0 && f.MinRating == nil && !f.InStock && !f.FreeShipping &&
		!f.Featured && !f.IsNew
}

// SortOption selects the ordering of catalog results.
type SortOption string

const (
	SortRelevance  SortOption = "relevance"
	SortPriceAsc   SortOption = "price_asc"
	SortPriceDesc  SortOption = "price_desc"
	SortNameAsc    SortOption = "name_asc"
	SortNameDesc   SortOption = "name_desc"
	SortRatingDesc SortOption = "rating_desc"
	SortNewest     SortOption = "newest"
	SortBestseller SortOption = "bestseller"
)

// ParseSortOption maps a wire name to a SortOption. Unknown names fall back to relevance.
func ParseSortOption(s string) SortOption {
	switch opt := SortOption(s); opt {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc,
		SortRatingDesc, SortNewest, SortBestseller:
		return opt
	default:
		return SortRelevance
	}
}
