// Package wishlist keeps the set of products a shopper saved for later.
package wishlist

import (
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/reactive"
	"github.com/dukerupert/wagsales/internal/storage"
)

// StorageKey is the snapshot key used when none is configured.
const StorageKey = "wagsales_wishlist"

// Catalog resolves saved ids to products.
type Catalog interface {
	ProductByID(id string) (domain.Product, bool)
}

// Wishlist is an insertion-ordered set of product ids, persisted as a JSON
// array after every change.
//
// A Wishlist is not safe for concurrent use.
type Wishlist struct {
	ids        *reactive.State[[]string]
	persister  *storage.Persister
	storageKey string
	logger     *slog.Logger
}

// New restores the wishlist stored under storageKey ("" for StorageKey).
// A nil persister keeps the wishlist in memory only.
func New(persister *storage.Persister, storageKey string, logger *slog.Logger) *Wishlist {
	if storageKey == "" {
		storageKey = StorageKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	w := &Wishlist{
		ids:        reactive.NewState[[]string](nil),
		persister:  persister,
		storageKey: storageKey,
		logger:     logger,
	}

	w.load()
	w.ids.Subscribe(func(ids []string) { w.save(ids) })
	return w
}

// Has reports whether id is saved.
func (w *Wishlist) Has(id string) bool {
	return slices.Contains(w.ids.Get(), id)
}

// Add saves id. Saving an id twice has no effect.
func (w *Wishlist) Add(id string) {
	if id == "" || w.Has(id) {
		return
	}
	w.ids.Set(append(slices.Clone(w.ids.Get()), id))
}

// Remove drops id if present.
func (w *Wishlist) Remove(id string) {
	i := slices.Index(w.ids.Get(), id)
	if i < 0 {
		return
	}
	w.ids.Set(slices.Delete(slices.Clone(w.ids.Get()), i, i+1))
}

// Toggle flips membership of id and reports whether it is now saved.
func (w *Wishlist) Toggle(id string) bool {
	if w.Has(id) {
		w.Remove(id)
		return false
	}
	w.Add(id)
	return w.Has(id)
}

// IDs returns the saved ids in the order they were added.
func (w *Wishlist) IDs() []string {
	return slices.Clone(w.ids.Get())
}

// Count is the number of saved ids.
func (w *Wishlist) Count() int {
	return len(w.ids.Get())
}

// Clear removes every id.
func (w *Wishlist) Clear() {
	w.ids.Set(nil)
}

// Products resolves the saved ids. Ids no longer in the catalog are skipped.
func (w *Wishlist) Products(catalog Catalog) []domain.Product {
	var out []domain.Product
	for _, id := range w.ids.Get() {
		if p, ok := catalog.ProductByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}

func (w *Wishlist) load() {
	raw := w.persister.Load(w.storageKey)
	if raw == nil {
		return
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		w.logger.Warn("discarding malformed wishlist snapshot", "key", w.storageKey, "error", err)
		return
	}

	var set []string
	for _, id := range ids {
		if id != "" && !slices.Contains(set, id) {
			set = append(set, id)
		}
	}
	w.ids.Set(set)
}

func (w *Wishlist) save(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		w.logger.Warn("failed to encode wishlist snapshot", "error", err)
		return
	}
	w.persister.Save(w.storageKey, data)
}
