// Package session binds anonymous shoppers to their own catalog, cart and
// wishlist state.
package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dukerupert/wagsales/internal/cart"
	"github.com/dukerupert/wagsales/internal/catalog"
	"github.com/dukerupert/wagsales/internal/cookie"
	"github.com/dukerupert/wagsales/internal/domain"
	"github.com/dukerupert/wagsales/internal/shipping"
	"github.com/dukerupert/wagsales/internal/storage"
	"github.com/dukerupert/wagsales/internal/wishlist"
	"github.com/google/uuid"
)

// DefaultIdleTimeout is how long an untouched session stays in memory.
const DefaultIdleTimeout = 30 * time.Minute

// Session is one shopper's state. The engines are not safe for concurrent
// use, so callers hold the session lock for the whole request.
type Session struct {
	mu sync.Mutex

	ID       string
	Catalog  *catalog.Engine
	Cart     *cart.Engine
	Wishlist *wishlist.Wishlist

	lastSeen time.Time
}

// Lock serializes access to the session's engines.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// Config wires a Manager. Products is the catalog every session browses.
type Config struct {
	Products    []domain.Product
	Coupons     cart.CouponRegistry
	Shipping    shipping.Policy
	Persister   *storage.Persister
	Cookies     *cookie.Config
	IdleTimeout time.Duration
	Logger      *slog.Logger
	Now         func() time.Time
}

// Manager creates sessions on first use and keeps the live ones in memory.
// Evicted sessions are rebuilt from their persisted snapshots.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	products    []domain.Product
	coupons     cart.CouponRegistry
	shipping    shipping.Policy
	persister   *storage.Persister
	cookies     *cookie.Config
	idleTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// NewManager creates a session manager.
func NewManager(cfg Config) *Manager {
	m := &Manager{
		sessions:    make(map[string]*Session),
		products:    cfg.Products,
		coupons:     cfg.Coupons,
		shipping:    cfg.Shipping,
		persister:   cfg.Persister,
		cookies:     cfg.Cookies,
		idleTimeout: cfg.IdleTimeout,
		logger:      cfg.Logger,
		now:         cfg.Now,
	}
	if m.coupons == nil {
		m.coupons = cart.NewStaticRegistry(nil)
	}
	if m.cookies == nil {
		m.cookies = cookie.NewConfig("", false)
	}
	if m.idleTimeout <= 0 {
		m.idleTimeout = DefaultIdleTimeout
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// FromRequest returns the caller's session, starting a new one and setting
// the session cookie when the request carries no valid session id.
func (m *Manager) FromRequest(w http.ResponseWriter, r *http.Request) *Session {
	id := cookie.Get(r, cookie.SessionCookieName)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		m.cookies.SetSession(w, cookie.SessionCookieName, id, cookie.SessionMaxAge)
	}
	return m.Get(id)
}

// Get returns the session for id, building it on first use.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = m.build(id)
		m.sessions[id] = s
		m.logger.Debug("session started", "session_id", id)
	}
	s.lastSeen = m.now()
	return s
}

func (m *Manager) build(id string) *Session {
	persister := m.persister.WithPrefix(id)
	logger := m.logger.With("session_id", id)

	products := catalog.NewEngine(m.products)
	return &Session{
		ID:      id,
		Catalog: products,
		Cart: cart.NewEngine(cart.Config{
			Catalog:   products,
			Coupons:   m.coupons,
			Shipping:  m.shipping,
			Persister: persister,
			Logger:    logger,
			Now:       m.now,
		}),
		Wishlist: wishlist.New(persister, "", logger),
	}
}

// Sweep drops sessions idle for longer than the idle timeout and reports how
// many were removed.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.idleTimeout)
	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("sessions evicted", "count", removed)
	}
	return removed
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
