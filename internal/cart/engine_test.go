package cart_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/wagsales/internal/cart"
	"github.com/dukerupert/wagsales/internal/catalog"
	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/shipping"
	"github.com/dukerupert/wagsales/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func product(id, price string, stock int) domain.Product {
	return domain.Product{
		ID:    id,
		Name:  "Produto " + id,
		Slug:  "produto-" + id,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func withVariants(p domain.Product, variants ...domain.ProductVariant) domain.Product {
	p.Variants = variants
	return p
}

func variant(typ domain.VariantType, value, priceMod string, stockMod int) domain.ProductVariant {
	v := domain.ProductVariant{ID: string(typ) + "-" + value, Type: typ, Name: value, Value: value}
	if priceMod != "" {
		d := decimal.RequireFromString(priceMod)
		v.PriceModifier = &d
	}
	if stockMod != 0 {
		v.StockModifier = &stockMod
	}
	return v
}

func newCart(t *testing.T, products []domain.Product, p *storage.Persister) *cart.Engine {
	t.Helper()
	return cart.NewEngine(cart.Config{
		Catalog:   catalog.NewEngine(products),
		Persister: p,
		Now:       func() time.Time { return fixedNow },
	})
}

func money(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2))
}

func quantityOf(e *cart.Engine, key string) int {
	for _, l := range e.Lines() {
		if l.Key == key {
			return l.Quantity
		}
	}
	return 0
}

func TestEngine_AddClampsToStockAndAccumulates(t *testing.T) {
	p := product("1", "10", 5)

	tests := []struct {
		name string
		adds []int
		want int
	}{
		{"below stock", []int{3}, 3},
		{"exactly stock", []int{5}, 5},
		{"above stock", []int{9}, 5},
		{"accumulates", []int{2, 2}, 4},
		{"accumulates then clamps", []int{3, 3}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newCart(t, []domain.Product{p}, nil)
			for _, q := range tt.adds {
				e.Add(p, q, nil)
			}
			assert.Equal(t, tt.want, quantityOf(e, "1"))
			assert.Len(t, e.Lines(), 1)
		})
	}
}

// Quantities below one are treated as one. This mirrors long-standing
// storefront behavior and is kept on purpose.
func TestEngine_AddTreatsNonPositiveQuantityAsOne(t *testing.T) {
	p := product("1", "10", 5)
	e := newCart(t, []domain.Product{p}, nil)

	e.Add(p, 0, nil)
	assert.Equal(t, 1, quantityOf(e, "1"))

	e.Add(p, -4, nil)
	assert.Equal(t, 2, quantityOf(e, "1"))
}

func TestEngine_AddOutOfStockStoresNothing(t *testing.T) {
	p := product("1", "10", 0)
	e := newCart(t, []domain.Product{p}, nil)

	e.Add(p, 2, nil)

	assert.Empty(t, e.Lines())
	assert.Equal(t, 0, e.ItemCount())
}

func TestEngine_VariantModifiers(t *testing.T) {
	p := withVariants(product("1", "100", 5),
		variant(domain.VariantSize, "G", "20", -3),
		variant(domain.VariantColor, "azul", "5.50", 0),
		variant(domain.VariantColor, "verde", "", 4),
	)
	e := newCart(t, []domain.Product{p}, nil)

	e.Add(p, 10, map[string]string{"size": "G", "color": "azul"})
	e.Add(p, 10, map[string]string{"color": "verde"})
	e.Add(p, 1, nil)

	lines := e.Lines()
	require.Len(t, lines, 3)

	assert.Equal(t, "1:color=azul|size=G", lines[0].Key)
	assert.Equal(t, 2, lines[0].Quantity, "stock 5 - 3")
	money(t, "125.50", lines[0].UnitPrice)
	money(t, "251.00", lines[0].Total)

	assert.Equal(t, "1:color=verde", lines[1].Key)
	assert.Equal(t, 9, lines[1].Quantity, "stock 5 + 4")
	money(t, "100.00", lines[1].UnitPrice)

	assert.Equal(t, "1", lines[2].Key)
	assert.Nil(t, lines[2].Selections)

	assert.Equal(t, 12, e.ItemCount())
	money(t, "1251.00", e.Subtotal())
}

func TestEngine_EffectiveStockFlooredAtZero(t *testing.T) {
	p := withVariants(product("1", "10", 2), variant(domain.VariantSize, "P", "", -5))
	e := newCart(t, []domain.Product{p}, nil)

	e.Add(p, 1, map[string]string{"size": "P"})

	assert.Empty(t, e.Lines())
}

func TestEngine_UpdateQuantity(t *testing.T) {
	p := product("1", "10", 5)

	tests := []struct {
		name     string
		key      string
		quantity int
		want     int
		wantLen  int
	}{
		{"within stock", "1", 4, 4, 1},
		{"clamped", "1", 50, 5, 1},
		{"zero removes", "1", 0, 0, 0},
		{"negative removes", "1", -2, 0, 0},
		{"unknown key ignored", "nope", 3, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newCart(t, []domain.Product{p}, nil)
			e.Add(p, 2, nil)

			e.UpdateQuantity(tt.key, tt.quantity)

			assert.Equal(t, tt.want, quantityOf(e, "1"))
			assert.Len(t, e.Lines(), tt.wantLen)
		})
	}
}

func TestEngine_UpdateQuantityForProductMissingFromCatalog(t *testing.T) {
	store := storage.NewMemoryStore()
	persister := storage.NewPersister(store, 0, nil)
	require.NoError(t, store.Set(context.Background(), cart.StorageKey,
		[]byte(`{"items":[{"id":"ghost","qty":1}],"coupon":null}`)))

	e := newCart(t, nil, persister)
	e.UpdateQuantity("ghost", 7)

	assert.Empty(t, e.Lines(), "dangling lines are not priced")
	assert.Equal(t, 0, e.ItemCount())

	raw, err := store.Get(context.Background(), cart.StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":"ghost","qty":7}],"coupon":null}`, string(raw))
}

func TestEngine_RemoveAndClear(t *testing.T) {
	a := product("1", "150", 5)
	b := product("2", "10", 5)
	e := newCart(t, []domain.Product{a, b}, nil)
	e.Add(a, 1, nil)
	e.Add(b, 1, nil)
	require.NoError(t, e.ApplyCoupon("BEMVINDO10"))

	e.Remove("missing")
	assert.Len(t, e.Lines(), 2)

	e.Remove("2")
	assert.Len(t, e.Lines(), 1)

	e.Clear()
	assert.Empty(t, e.Lines())
	assert.Equal(t, "BEMVINDO10", e.Coupon(), "clear keeps the coupon")
}

func TestEngine_DanglingLinesExcluded(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), cart.StorageKey,
		[]byte(`{"items":[{"id":"1","qty":2},{"id":"removed","qty":3}],"coupon":null}`)))

	e := newCart(t, []domain.Product{product("1", "10", 5)}, storage.NewPersister(store, 0, nil))

	require.Len(t, e.Lines(), 1)
	assert.Equal(t, 2, e.ItemCount())
	money(t, "20.00", e.Subtotal())
}

func TestEngine_Shipping(t *testing.T) {
	tests := []struct {
		name  string
		price string
		qty   int
		want  string
	}{
		{"below threshold", "50", 1, "19.90"},
		{"at threshold", "199", 1, "0.00"},
		{"above threshold", "100", 3, "0.00"},
		{"empty cart", "50", 0, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := product("1", tt.price, 10)
			e := newCart(t, []domain.Product{p}, nil)
			if tt.qty > 0 {
				e.Add(p, tt.qty, nil)
			}
			money(t, tt.want, e.Shipping())
		})
	}
}

func TestEngine_CouponWelcomeTenPercent(t *testing.T) {
	p := product("1", "50", 10)
	e := newCart(t, []domain.Product{p}, nil)
	e.Add(p, 3, nil)

	require.NoError(t, e.ApplyCoupon("BEMVINDO10"))
	money(t, "15.00", e.Discount())
	money(t, "154.90", e.Total())

	// Dropping below the minimum leaves the coupon applied but inert.
	e.UpdateQuantity("1", 1)
	assert.Equal(t, "BEMVINDO10", e.Coupon())
	money(t, "0.00", e.Discount())

	e.UpdateQuantity("1", 3)
	money(t, "15.00", e.Discount())
}

func TestEngine_CouponBelowMinimumAtApply(t *testing.T) {
	p := product("1", "50", 10)
	e := newCart(t, []domain.Product{p}, nil)
	e.Add(p, 1, nil)

	err := e.ApplyCoupon("BEMVINDO10")

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Equal(t, "minimum subtotal of R$ 100.00 required", e.CouponError())
	assert.Empty(t, e.Coupon())
	money(t, "0.00", e.Discount())
}

func TestEngine_CouponFreeShipping(t *testing.T) {
	p := product("1", "50", 10)
	e := newCart(t, []domain.Product{p}, nil)
	e.Add(p, 1, nil)
	money(t, "19.90", e.Shipping())

	require.NoError(t, e.ApplyCoupon("fretegratis"))

	assert.Equal(t, "FRETEGRATIS", e.Coupon())
	money(t, "0.00", e.Shipping())
	money(t, "0.00", e.Discount())
	money(t, "50.00", e.Total())
}

func TestEngine_CouponFixed(t *testing.T) {
	p := product("1", "150", 10)
	e := newCart(t, []domain.Product{p}, nil)
	e.Add(p, 2, nil)

	require.NoError(t, e.ApplyCoupon("  desconto50 "))

	money(t, "50.00", e.Discount())
	money(t, "250.00", e.Total())
}

func TestEngine_CouponFailures(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr error
		wantMsg string
	}{
		{"unknown", "NADA", cart.ErrInvalidCoupon, "invalid coupon"},
		{"expired", "blackfriday", cart.ErrExpiredCoupon, "expired coupon"},
		{"empty", "   ", cart.ErrCouponRequired, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := product("1", "500", 10)
			e := newCart(t, []domain.Product{p}, nil)
			e.Add(p, 1, nil)
			require.NoError(t, e.ApplyCoupon("FRETEGRATIS"))

			err := e.ApplyCoupon(tt.code)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, e.Coupon(), "failure unsets the coupon")
			assert.Equal(t, tt.wantMsg, e.CouponError())
		})
	}
}

func TestEngine_SuccessfulCouponClearsError(t *testing.T) {
	p := product("1", "500", 10)
	e := newCart(t, []domain.Product{p}, nil)
	e.Add(p, 1, nil)

	require.Error(t, e.ApplyCoupon("NADA"))
	require.NotEmpty(t, e.CouponError())

	require.NoError(t, e.ApplyCoupon("BEMVINDO10"))
	assert.Empty(t, e.CouponError())

	e.RemoveCoupon()
	assert.Empty(t, e.Coupon())
	money(t, "0.00", e.Discount())
}

func TestEngine_ExpiryCheckedOnRead(t *testing.T) {
	expires := fixedNow.Add(time.Hour)
	now := fixedNow
	registry := cart.NewStaticRegistry([]domain.Coupon{
		{Code: "FLASH", Type: domain.CouponPercent, Value: decimal.NewFromInt(50), ExpiresAt: &expires},
	})
	p := product("1", "100", 10)
	e := cart.NewEngine(cart.Config{
		Catalog: catalog.NewEngine([]domain.Product{p}),
		Coupons: registry,
		Now:     func() time.Time { return now },
	})
	e.Add(p, 1, nil)

	require.NoError(t, e.ApplyCoupon("FLASH"))
	money(t, "50.00", e.Discount())

	now = fixedNow.Add(2 * time.Hour)
	money(t, "0.00", e.Discount())
	assert.Equal(t, "FLASH", e.Coupon())
}

func TestEngine_PercentDiscountRounding(t *testing.T) {
	registry := cart.NewStaticRegistry([]domain.Coupon{
		{Code: "DEZ", Type: domain.CouponPercent, Value: decimal.NewFromInt(10)},
	})
	p := product("1", "99.90", 10)
	e := cart.NewEngine(cart.Config{Catalog: catalog.NewEngine([]domain.Product{p}), Coupons: registry})
	e.Add(p, 1, nil)

	require.NoError(t, e.ApplyCoupon("DEZ"))
	money(t, "10.00", e.Discount())
}

func TestEngine_TotalNeverNegative(t *testing.T) {
	registry := cart.NewStaticRegistry([]domain.Coupon{
		{Code: "ALL", Type: domain.CouponFixed, Value: decimal.NewFromInt(100000)},
		{Code: "MORE", Type: domain.CouponPercent, Value: decimal.NewFromInt(150)},
		{Code: "SHIP", Type: domain.CouponFreeShipping},
	})

	for _, code := range []string{"ALL", "MORE", "SHIP"} {
		for _, price := range []string{"0.01", "19.90", "198.99", "199", "5000"} {
			for _, qty := range []int{1, 2, 7} {
				p := product("1", price, 10)
				e := cart.NewEngine(cart.Config{Catalog: catalog.NewEngine([]domain.Product{p}), Coupons: registry})
				e.Add(p, qty, nil)
				require.NoError(t, e.ApplyCoupon(code))

				assert.False(t, e.Total().IsNegative(), "code=%s price=%s qty=%d", code, price, qty)
				assert.True(t, e.Discount().LessThanOrEqual(e.Subtotal()), "code=%s price=%s qty=%d", code, price, qty)
			}
		}
	}
}

func TestEngine_PersistenceRoundTrip(t *testing.T) {
	shoe := withVariants(product("5", "299.90", 10),
		variant(domain.VariantSize, "42", "", 0),
		variant(domain.VariantColor, "preto", "10", 0),
	)
	book := product("7", "49.90", 10)
	products := []domain.Product{shoe, book}
	persister := storage.NewPersister(storage.NewMemoryStore(), 0, nil)

	first := newCart(t, products, persister)
	first.Add(shoe, 2, map[string]string{"size": "42", "color": "preto"})
	first.Add(book, 3, nil)
	require.NoError(t, first.ApplyCoupon("BEMVINDO10"))

	second := newCart(t, products, persister)

	assert.Equal(t, first.Lines(), second.Lines())
	assert.Equal(t, "BEMVINDO10", second.Coupon())
	money(t, first.Total().StringFixed(2), second.Total())

	lines := second.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, map[string]string{"size": "42", "color": "preto"}, lines[0].Selections)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Nil(t, lines[1].Selections)
	assert.Equal(t, 3, lines[1].Quantity)
}

func TestEngine_LoadsLegacySnapshot(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), cart.StorageKey,
		[]byte(`[{"id":"1","qty":2},{"id":"1","qty":1,"v":{"color":"azul"}}]`)))

	p := withVariants(product("1", "10", 5), variant(domain.VariantColor, "azul", "", 0))
	e := newCart(t, []domain.Product{p}, storage.NewPersister(store, 0, nil))

	assert.Equal(t, 2, quantityOf(e, "1"))
	assert.Equal(t, 1, quantityOf(e, "1:color=azul"))
	assert.Empty(t, e.Coupon())
}

func TestEngine_LoadReclampsToCurrentStock(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), cart.StorageKey,
		[]byte(`{"items":[{"id":"1","qty":50},{"id":"1","qty":2,"v":{"size":"G"}},{"id":"gone","qty":4}]}`)))

	p := withVariants(product("1", "10", 3), variant(domain.VariantSize, "G", "", -3))
	e := newCart(t, []domain.Product{p}, storage.NewPersister(store, 0, nil))

	lines := e.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "1", lines[0].Key)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 0, quantityOf(e, "1:size=G"), "variant out of stock is dropped")
	money(t, "30.00", e.Subtotal())
}

func TestEngine_LoadIgnoresUnknownCoupon(t *testing.T) {
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), cart.StorageKey,
		[]byte(`{"items":[],"coupon":"RETIRED"}`)))

	e := newCart(t, nil, storage.NewPersister(store, 0, nil))

	assert.Empty(t, e.Coupon())
}

func TestEngine_MalformedSnapshotIsEmptyCart(t *testing.T) {
	var logs bytes.Buffer
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), cart.StorageKey, []byte(`{"items":`)))

	e := cart.NewEngine(cart.Config{
		Catalog:   catalog.NewEngine(nil),
		Persister: storage.NewPersister(store, 0, nil),
		Logger:    slog.New(slog.NewTextHandler(&logs, nil)),
	})

	assert.Empty(t, e.Lines())
	assert.Contains(t, logs.String(), "discarding malformed cart snapshot")
}

func TestEngine_StorageFailuresAreSwallowed(t *testing.T) {
	failing := &storage.MockStore{
		GetFunc: func(ctx context.Context, key string) ([]byte, error) { return nil, errors.New("unavailable") },
		SetFunc: func(ctx context.Context, key string, value []byte) error { return errors.New("quota exceeded") },
	}
	p := product("1", "10", 5)
	e := newCart(t, []domain.Product{p}, storage.NewPersister(failing, 0, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	assert.NotPanics(t, func() {
		e.Add(p, 2, nil)
		e.UpdateQuantity("1", 1)
		e.Clear()
	})
	assert.Equal(t, 3, failing.SetCalls)
}

func TestEngine_PersistsEveryMutation(t *testing.T) {
	mock := &storage.MockStore{}
	p := product("1", "150", 5)
	e := newCart(t, []domain.Product{p}, storage.NewPersister(mock, 0, nil))

	e.Add(p, 1, nil)
	e.UpdateQuantity("1", 2)
	require.NoError(t, e.ApplyCoupon("BEMVINDO10"))
	e.RemoveCoupon()
	e.Remove("1")

	assert.Equal(t, 5, mock.SetCalls)
}

func TestEngine_Summary(t *testing.T) {
	p := product("1", "100", 5)
	e := newCart(t, []domain.Product{p}, nil)
	e.Add(p, 2, nil)
	require.NoError(t, e.ApplyCoupon("BEMVINDO10"))

	s := e.Summary()

	assert.Len(t, s.Lines, 1)
	assert.Equal(t, 2, s.ItemCount)
	money(t, "200.00", s.Subtotal)
	money(t, "20.00", s.Discount)
	money(t, "0.00", s.Shipping)
	money(t, "180.00", s.Total)
	assert.Equal(t, "BEMVINDO10", s.Coupon)
}

func TestEngine_ShippingPolicyIsSwappable(t *testing.T) {
	policy := shipping.NewMockPolicy()
	policy.QuoteFunc = func(params shipping.QuoteParams) decimal.Decimal {
		return decimal.NewFromInt(int64(params.ItemCount) * 5)
	}
	p := product("1", "1000", 10)
	e := cart.NewEngine(cart.Config{Catalog: catalog.NewEngine([]domain.Product{p}), Shipping: policy})
	e.Add(p, 3, nil)
	require.NoError(t, e.ApplyCoupon("FRETEGRATIS"))

	money(t, "15.00", e.Shipping())
	last := policy.Calls[len(policy.Calls)-1]
	assert.True(t, last.FreeShipping)
	assert.Equal(t, 3, last.ItemCount)
	money(t, "3000.00", last.Subtotal)
}
