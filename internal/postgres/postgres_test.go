package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/postgres"
	"github.com/dukerupert/wagsales/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB records statements and serves a single key/value table.
type fakeDB struct {
	values  map[string][]byte
	err     error
	queries int
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	f.values[args[0].(string)] = args[1].([]byte)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.queries++
	return nil, f.err
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	v, ok := f.values[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: v}
}

type fakeRow struct {
	value []byte
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*[]byte) = r.value
	return nil
}

func TestSnapshotStore_RoundTrip(t *testing.T) {
	db := &fakeDB{values: map[string][]byte{}}
	s := postgres.NewSnapshotStore(db)
	ctx := context.Background()

	_, err := s.Get(ctx, "cart")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, s.Set(ctx, "cart", []byte(`{"items":[]}`)))
	got, err := s.Get(ctx, "cart")
	require.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, string(got))

	assert.ErrorIs(t, s.Set(ctx, "", []byte("x")), storage.ErrInvalidKey)
}

func TestSnapshotStore_BackendFailure(t *testing.T) {
	db := &fakeDB{values: map[string][]byte{}, err: errors.New("connection reset")}
	s := postgres.NewSnapshotStore(db)

	_, err := s.Get(context.Background(), "cart")
	require.Error(t, err)
	assert.NotErrorIs(t, err, storage.ErrKeyNotFound)
	assert.Contains(t, err.Error(), "connection reset")

	err = s.Set(context.Background(), "cart", []byte("{}"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage set failed")
}

func TestCatalogSource_QueryFailure(t *testing.T) {
	db := &fakeDB{err: errors.New("relation \"products\" does not exist")}

	_, err := postgres.NewCatalogSource(db).AllProducts(context.Background())

	require.Error(t, err)
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(err))
	assert.Equal(t, 1, db.queries)
}

func TestProductRow_Product(t *testing.T) {
	orig := "2299.90"
	created := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	row := postgres.ProductRow{
		ID: "1", Name: "Smartphone", Slug: "smartphone",
		Price: "1899.90", OriginalPrice: &orig,
		Category: "eletronicos", CategoryName: "Eletrônicos",
		Tags:  []string{"5g"},
		Stock: 25, Rating: 4.7, ReviewCount: 1280, Brand: "Samsung",
		Variants:  []byte(`[{"id":"1-s1","type":"size","name":"256GB","value":"256gb","priceModifier":"300.00","stockModifier":-15}]`),
		Featured:  true,
		CreatedAt: created,
	}

	p, err := row.Product()
	require.NoError(t, err)

	assert.Equal(t, "1899.9", p.Price.String())
	require.NotNil(t, p.OriginalPrice)
	assert.Equal(t, "2299.90", p.OriginalPrice.StringFixed(2))
	assert.Equal(t, 17, p.DiscountPercent())
	require.Len(t, p.Variants, 1)
	assert.Equal(t, domain.VariantSize, p.Variants[0].Type)
	assert.Equal(t, "300.00", p.Variants[0].PriceModifier.StringFixed(2))
	assert.Equal(t, -15, *p.Variants[0].StockModifier)
	assert.True(t, p.Featured)
	assert.Equal(t, created, p.CreatedAt)
}

func TestProductRow_ProductErrors(t *testing.T) {
	bad := "abc"
	tests := []struct {
		name string
		row  postgres.ProductRow
	}{
		{"price", postgres.ProductRow{ID: "1", Price: "x"}},
		{"original price", postgres.ProductRow{ID: "1", Price: "10", OriginalPrice: &bad}},
		{"variants", postgres.ProductRow{ID: "1", Price: "10", Variants: []byte(`{`)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.row.Product()
			assert.Error(t, err)
		})
	}
}
