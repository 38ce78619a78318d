package storage

import (
	"context"

	"github.com/dukerupert/wagsales/internal"
)

// Store is the persistent key-value collaborator that holds serialized
// cart and wishlist snapshots.
type Store interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if nothing is stored.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// NewStore creates a Store based on configuration.
// The "postgres" provider needs a connection pool and is built by the caller.
func NewStore(cfg internal.StorageConfig) (Store, error) {
	switch cfg.Provider {
	case "memory", "":
		return NewMemoryStore(), nil
	case "local":
		return NewLocalStore(cfg.LocalPath)
	case "redis":
		return NewRedisStore(cfg.RedisAddr, cfg.RedisTTL)
	case "noop":
		return NoopStore{}, nil
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
