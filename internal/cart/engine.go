// Package cart implements the shopping cart and its pricing: variant-aware line
// pricing against the live catalog, stock clamping, coupons and shipping.
package cart

import (
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/reactive"
	"github.com/dukerupert/wagsales/internal/shipping"
	"github.com/dukerupert/wagsales/internal/storage"
	"github.com/shopspring/decimal"
)

// StorageKey is the snapshot key used when Config.StorageKey is empty.
const StorageKey = "wagsales_cart_v1"

// Catalog is the product lookup the cart prices against.
// Version must change whenever the product set changes.
type Catalog interface {
	reactive.Versioned
	ProductByID(id string) (domain.Product, bool)
}

// Config wires an Engine to its collaborators. Only Catalog is required.
type Config struct {
	Catalog    Catalog
	Coupons    CouponRegistry    // defaults to the built-in coupon table
	Shipping   shipping.Policy   // defaults to shipping.DefaultPolicy()
	Persister  *storage.Persister // nil disables persistence
	StorageKey string
	Logger     *slog.Logger
	Now        func() time.Time
}

// Summary is every cart read in one value.
type Summary struct {
	Lines       []domain.DetailedCartLine `json:"lines"`
	ItemCount   int                       `json:"itemCount"`
	Subtotal    decimal.Decimal           `json:"subtotal"`
	Discount    decimal.Decimal           `json:"discount"`
	Shipping    decimal.Decimal           `json:"shipping"`
	Total       decimal.Decimal           `json:"total"`
	Coupon      string                    `json:"coupon,omitempty"`
	CouponError string                    `json:"couponError,omitempty"`
}

// entry is one stored line. Entries keep insertion order.
type entry struct {
	key  string
	line domain.CartLine
}

// Engine holds cart lines and the applied coupon and derives prices from them.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	catalog    Catalog
	coupons    CouponRegistry
	shipping   shipping.Policy
	persister  *storage.Persister
	storageKey string
	logger     *slog.Logger
	now        func() time.Time

	entries   *reactive.State[[]entry]
	coupon    *reactive.State[string]
	couponErr *reactive.State[string]

	lines     *reactive.Computed[[]domain.DetailedCartLine]
	itemCount *reactive.Computed[int]
	subtotal  *reactive.Computed[decimal.Decimal]
}

// NewEngine creates a cart, restoring the persisted snapshot if there is one.
// Every later mutation is written back through the persister.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		catalog:    cfg.Catalog,
		coupons:    cfg.Coupons,
		shipping:   cfg.Shipping,
		persister:  cfg.Persister,
		storageKey: cfg.StorageKey,
		logger:     cfg.Logger,
		now:        cfg.Now,
		entries:    reactive.NewState[[]entry](nil),
		coupon:     reactive.NewState(""),
		couponErr:  reactive.NewState(""),
	}
	if e.coupons == nil {
		e.coupons = NewStaticRegistry(nil)
	}
	if e.shipping == nil {
		e.shipping = shipping.DefaultPolicy()
	}
	if e.storageKey == "" {
		e.storageKey = StorageKey
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.now == nil {
		e.now = time.Now
	}

	e.lines = reactive.NewComputed(e.resolveLines, e.entries, e.catalog)
	e.itemCount = reactive.NewComputed(func() int {
		n := 0
		for _, l := range e.lines.Get() {
			n += l.Quantity
		}
		return n
	}, e.lines)
	e.subtotal = reactive.NewComputed(func() decimal.Decimal {
		sum := decimal.Zero
		for _, l := range e.lines.Get() {
			sum = sum.Add(l.Total)
		}
		return sum
	}, e.lines)

	e.load()
	e.entries.Subscribe(func([]entry) { e.save() })
	e.coupon.Subscribe(func(string) { e.save() })

	return e
}

// resolveLines prices every stored line against the catalog, skipping lines
// whose product no longer exists.
func (e *Engine) resolveLines() []domain.DetailedCartLine {
	entries := e.entries.Get()
	out := make([]domain.DetailedCartLine, 0, len(entries))
	for _, en := range entries {
		p, ok := e.catalog.ProductByID(en.line.ProductID)
		if !ok {
			continue
		}
		unit := p.UnitPrice(en.line.Selections)
		out = append(out, domain.DetailedCartLine{
			Key:        en.key,
			Product:    p,
			Quantity:   en.line.Quantity,
			UnitPrice:  unit,
			Total:      unit.Mul(decimal.NewFromInt(int64(en.line.Quantity))),
			Selections: en.line.Selections,
		})
	}
	return out
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Add puts quantity units of product into the cart, accumulating onto an
// existing line with the same variant selections. Quantities below 1 count as
// 1. The stored quantity is clamped to the product's effective stock; a line
// that clamps to zero is not stored.
func (e *Engine) Add(product domain.Product, quantity int, selections map[string]string) {
	if len(selections) == 0 {
		selections = nil
	} else {
		selections = maps.Clone(selections)
	}
	key := MakeKey(product.ID, selections)

	current := 0
	if i := e.index(key); i >= 0 {
		current = e.entries.Get()[i].line.Quantity
	}
	requested := current + max(1, quantity)
	clamped := min(requested, product.EffectiveStock(selections))

	e.put(key, domain.CartLine{ProductID: product.ID, Quantity: clamped, Selections: selections})
}

// Remove deletes the line with key. Unknown keys are ignored.
func (e *Engine) Remove(key string) {
	if e.index(key) < 0 {
		return
	}
	e.put(key, domain.CartLine{})
}

// UpdateQuantity sets the quantity of the line with key, clamped to the
// product's effective stock. A quantity of zero or less removes the line.
// Unknown keys are ignored. If the product has left the catalog the quantity
// is stored unclamped.
func (e *Engine) UpdateQuantity(key string, quantity int) {
	i := e.index(key)
	if i < 0 {
		return
	}
	line := e.entries.Get()[i].line
	if quantity <= 0 {
		e.put(key, domain.CartLine{})
		return
	}

	maxStock := quantity
	if p, ok := e.catalog.ProductByID(line.ProductID); ok {
		maxStock = p.EffectiveStock(line.Selections)
	}
	line.Quantity = min(quantity, maxStock)
	e.put(key, line)
}

// Clear removes every line. The applied coupon is kept.
func (e *Engine) Clear() {
	e.entries.Set(nil)
}

// ApplyCoupon activates the coupon with code. On failure the active coupon is
// unset and CouponError carries the user-facing reason. An empty code clears
// the coupon and returns ErrCouponRequired.
func (e *Engine) ApplyCoupon(code string) error {
	if strings.TrimSpace(code) == "" {
		e.setCoupon("", nil)
		return ErrCouponRequired
	}

	c, ok := e.coupons.Lookup(code)
	if !ok {
		e.setCoupon("", ErrInvalidCoupon)
		return ErrInvalidCoupon
	}
	if c.Expired(e.now()) {
		e.setCoupon("", ErrExpiredCoupon)
		return ErrExpiredCoupon
	}
	if c.BelowMinimum(e.Subtotal()) {
		err := errBelowMinimum(c)
		e.setCoupon("", err)
		return err
	}

	e.setCoupon(c.Code, nil)
	return nil
}

// RemoveCoupon clears the active coupon and any coupon error.
func (e *Engine) RemoveCoupon() {
	e.setCoupon("", nil)
}

func (e *Engine) setCoupon(code string, err error) {
	e.couponErr.Set(domain.ErrorMessage(err))
	if e.coupon.Get() != code {
		e.coupon.Set(code)
	}
}

// put stores line under key, or deletes key when the line has no quantity.
func (e *Engine) put(key string, line domain.CartLine) {
	e.entries.Update(func(old []entry) []entry {
		next := slices.Clone(old)
		i := slices.IndexFunc(next, func(en entry) bool { return en.key == key })
		switch {
		case line.Quantity <= 0 && i >= 0:
			return slices.Delete(next, i, i+1)
		case line.Quantity <= 0:
			return next
		case i >= 0:
			next[i].line = line
			return next
		default:
			return append(next, entry{key: key, line: line})
		}
	})
}

func (e *Engine) index(key string) int {
	return slices.IndexFunc(e.entries.Get(), func(en entry) bool { return en.key == key })
}

// =============================================================================
// DERIVED READS
// =============================================================================

// Lines returns the priced lines in insertion order. Lines whose product is no
// longer in the catalog are left out.
func (e *Engine) Lines() []domain.DetailedCartLine {
	return slices.Clone(e.lines.Get())
}

// ItemCount is the sum of quantities across priced lines.
func (e *Engine) ItemCount() int {
	return e.itemCount.Get()
}

// Subtotal is the sum of line totals.
func (e *Engine) Subtotal() decimal.Decimal {
	return e.subtotal.Get()
}

// Coupon returns the active coupon code, or "" when none is applied.
func (e *Engine) Coupon() string {
	return e.coupon.Get()
}

// CouponError returns the message of the last failed coupon application.
func (e *Engine) CouponError() string {
	return e.couponErr.Get()
}

// Shipping is zero for an empty cart or a free-shipping coupon; otherwise the
// shipping policy decides.
func (e *Engine) Shipping() decimal.Decimal {
	c, active := e.activeCoupon()
	return e.shipping.Quote(shipping.QuoteParams{
		Subtotal:     e.Subtotal(),
		ItemCount:    e.ItemCount(),
		FreeShipping: active && c.Type == domain.CouponFreeShipping,
	})
}

// Discount is what the active coupon takes off the subtotal. Expiry and the
// minimum subtotal are checked on every read, so a coupon applied earlier can
// be inert until the cart qualifies again.
func (e *Engine) Discount() decimal.Decimal {
	c, active := e.activeCoupon()
	if !active {
		return decimal.Zero
	}
	subtotal := e.Subtotal()
	if c.Expired(e.now()) || c.BelowMinimum(subtotal) {
		return decimal.Zero
	}

	switch c.Type {
	case domain.CouponPercent:
		off := subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(0)
		return decimal.Min(off, subtotal)
	case domain.CouponFixed:
		return decimal.Min(c.Value, subtotal)
	default:
		return decimal.Zero
	}
}

// Total is subtotal minus discount plus shipping, never below zero.
func (e *Engine) Total() decimal.Decimal {
	total := e.Subtotal().Sub(e.Discount()).Add(e.Shipping())
	return decimal.Max(total, decimal.Zero)
}

// Summary collects every read.
func (e *Engine) Summary() Summary {
	return Summary{
		Lines:       e.Lines(),
		ItemCount:   e.ItemCount(),
		Subtotal:    e.Subtotal(),
		Discount:    e.Discount(),
		Shipping:    e.Shipping(),
		Total:       e.Total(),
		Coupon:      e.Coupon(),
		CouponError: e.CouponError(),
	}
}

func (e *Engine) activeCoupon() (domain.Coupon, bool) {
	code := e.coupon.Get()
	if code == "" {
		return domain.Coupon{}, false
	}
	return e.coupons.Lookup(code)
}

// =============================================================================
// PERSISTENCE
// =============================================================================

// load restores the stored snapshot. Lines are clamped to the catalog's current
// effective stock and dropped at zero; lines for unknown products are kept as is.
func (e *Engine) load() {
	raw := e.persister.Load(e.storageKey)
	if raw == nil {
		return
	}

	snap, err := DecodeSnapshot(raw)
	if err != nil {
		e.logger.Warn("discarding malformed cart snapshot", "key", e.storageKey, "error", err)
		return
	}

	var entries []entry
	for _, line := range snap.Items {
		if len(line.Selections) == 0 {
			line.Selections = nil
		}
		key := MakeKey(line.ProductID, line.Selections)
		if i := slices.IndexFunc(entries, func(en entry) bool { return en.key == key }); i >= 0 {
			entries[i].line = line
			continue
		}
		entries = append(entries, entry{key: key, line: line})
	}

	// Stock may have dropped since the snapshot was written.
	kept := entries[:0]
	for _, en := range entries {
		if p, ok := e.catalog.ProductByID(en.line.ProductID); ok {
			en.line.Quantity = min(en.line.Quantity, p.EffectiveStock(en.line.Selections))
		}
		if en.line.Quantity > 0 {
			kept = append(kept, en)
		}
	}
	e.entries.Set(kept)

	if snap.Coupon != nil {
		if c, ok := e.coupons.Lookup(*snap.Coupon); ok {
			e.coupon.Set(c.Code)
		}
	}
}

func (e *Engine) save() {
	entries := e.entries.Get()
	lines := make([]domain.CartLine, len(entries))
	for i, en := range entries {
		lines[i] = en.line
	}

	data, err := EncodeSnapshot(lines, e.coupon.Get())
	if err != nil {
		e.logger.Warn("failed to encode cart snapshot", "error", err)
		return
	}
	e.persister.Save(e.storageKey, data)
}
