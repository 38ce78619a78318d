package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultTimeout bounds a single read or write when none is configured.
const DefaultTimeout = 2 * time.Second

// Persister is the boundary between the engines and a Store. Engines treat
// persistence as best effort: Load and Save never fail, they log at Warn and
// carry on. A nil *Persister behaves like a store that never holds anything.
type Persister struct {
	store   Store
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

// NewPersister wraps store. A non-positive timeout uses DefaultTimeout.
func NewPersister(store Store, timeout time.Duration, logger *slog.Logger) *Persister {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{store: store, timeout: timeout, logger: logger}
}

// WithPrefix returns a persister sharing the same store whose keys are
// namespaced under prefix. Prefixes nest.
func (p *Persister) WithPrefix(prefix string) *Persister {
	if p == nil {
		return nil
	}
	cp := *p
	cp.prefix = p.prefix + prefix + ":"
	return &cp
}

// Key returns the namespaced store key for key.
func (p *Persister) Key(key string) string {
	if p == nil {
		return key
	}
	return p.prefix + key
}

// Load returns the stored value for key, or nil when nothing is stored or the
// store cannot be read.
func (p *Persister) Load(key string) (value []byte) {
	if p == nil || p.store == nil {
		return nil
	}
	fullKey := p.Key(key)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("storage read panicked", "key", fullKey, "error", fmt.Sprint(r))
			value = nil
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	value, err := p.store.Get(ctx, fullKey)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			p.logger.Warn("storage read failed", "key", fullKey, "error", err)
		}
		return nil
	}
	return value
}

// Save writes value under key. Failures are logged and swallowed.
func (p *Persister) Save(key string, value []byte) {
	if p == nil || p.store == nil {
		return
	}
	fullKey := p.Key(key)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn("storage write panicked", "key", fullKey, "error", fmt.Sprint(r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.store.Set(ctx, fullKey, value); err != nil {
		p.logger.Warn("storage write failed", "key", fullKey, "error", err)
	}
}
