// Package reactive provides a small observable-state container: typed mutable
// cells and lazily recomputed derived views with explicit dependencies.
//
// Values are not safe for concurrent use. Callers serialize access, which keeps
// every read consistent with the most recent completed write.
package reactive

// Versioned is anything a derived view can depend on.
type Versioned interface {
	// Version increases every time the observed value may have changed.
	Version() uint64
}

// State is a mutable cell.
type State[T any] struct {
	value   T
	version uint64
	subs    []*subscription[T]
}

type subscription[T any] struct {
	fn func(T)
}

// NewState creates a cell holding initial.
func NewState[T any](initial T) *State[T] {
	return &State[T]{value: initial, version: 1}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	return s.value
}

// Version implements Versioned.
func (s *State[T]) Version() uint64 {
	return s.version
}

// Set stores v, bumps the version and notifies subscribers in registration order.
func (s *State[T]) Set(v T) {
	s.value = v
	s.version++
	for _, sub := range append([]*subscription[T](nil), s.subs...) {
		if sub.fn != nil {
			sub.fn(v)
		}
	}
}

// Update replaces the value with fn(current).
func (s *State[T]) Update(fn func(T) T) {
	s.Set(fn(s.value))
}

// Subscribe registers fn to run after every Set. The returned function removes
// the subscription and is safe to call more than once.
func (s *State[T]) Subscribe(fn func(T)) (cancel func()) {
	sub := &subscription[T]{fn: fn}
	s.subs = append(s.subs, sub)
	return func() {
		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		sub.fn = nil
	}
}

// Computed is a derived view. It re-evaluates fn only when read after one of its
// dependencies changed.
type Computed[T any] struct {
	fn    func() T
	deps  []Versioned
	seen  []uint64
	value T
	valid bool
}

// NewComputed creates a derived view over deps. fn must be free of side effects
// and must only read values listed in deps.
func NewComputed[T any](fn func() T, deps ...Versioned) *Computed[T] {
	return &Computed[T]{
		fn:   fn,
		deps: deps,
		seen: make([]uint64, len(deps)),
	}
}

// Get returns the cached value, recomputing it first if any dependency moved.
func (c *Computed[T]) Get() T {
	if c.valid && !c.stale() {
		return c.value
	}
	for i, d := range c.deps {
		c.seen[i] = d.Version()
	}
	c.value = c.fn()
	c.valid = true
	return c.value
}

// Version implements Versioned. Dependency versions only grow, so their sum
// grows whenever any of them does.
func (c *Computed[T]) Version() uint64 {
	var v uint64
	for _, d := range c.deps {
		v += d.Version()
	}
	return v
}

func (c *Computed[T]) stale() bool {
	for i, d := range c.deps {
		if d.Version() != c.seen[i] {
			return true
		}
	}
	return false
}
