package postgres

import (
	"context"
	"errors"

	"github.com/dukerupert/wagsales/internal/storage"
	"github.com/jackc/pgx/v5"
)

const (
	getSnapshotSQL = `SELECT value FROM storefront_snapshots WHERE key = $1`

	upsertSnapshotSQL = `
INSERT INTO storefront_snapshots (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
)

// SnapshotStore implements storage.Store on the storefront_snapshots table.
type SnapshotStore struct {
	db Querier
}

var _ storage.Store = (*SnapshotStore)(nil)

// NewSnapshotStore creates a store backed by db.
func NewSnapshotStore(db Querier) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Get returns the value stored under key.
func (s *SnapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRow(ctx, getSnapshotSQL, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrKeyNotFound
		}
		return nil, storage.ErrUnavailable("get", err)
	}
	return value, nil
}

// Set inserts or replaces the value under key.
func (s *SnapshotStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return storage.ErrInvalidKey
	}
	if _, err := s.db.Exec(ctx, upsertSnapshotSQL, key, value); err != nil {
		return storage.ErrUnavailable("set", err)
	}
	return nil
}
