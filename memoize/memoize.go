// Package memoize caches the results of callables keyed by their arguments.
//
// Keys use native Go comparability, so two calls hit the same entry exactly
// when their keys compare equal. Only successful results are cached; the
// wrapped callable must be deterministic for a given key.
package memoize

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vyrodovalexey/decorate/observability"
)

// Option configures a Memo.
type Option func(*config)

type config struct {
	capacity int
	store    Store
	keyFunc  func(any) string
	logger   observability.Logger
}

// WithCapacity bounds the in-memory cache to n entries with LRU eviction.
// Without it the cache grows without bound for the lifetime of the Memo.
func WithCapacity(n int) Option {
	return func(c *config) {
		c.capacity = n
	}
}

// WithStore keeps results in an external Store instead of process memory.
// Values must be JSON-encodable.
func WithStore(store Store) Option {
	return func(c *config) {
		c.store = store
	}
}

// WithKeyFunc overrides how keys are rendered for an external Store.
// The default rendering is fmt.Sprintf("%#v", key).
func WithKeyFunc(fn func(any) string) Option {
	return func(c *config) {
		c.keyFunc = fn
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger observability.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Hits is the number of calls answered from the cache.
	Hits int64

	// Misses is the number of calls that invoked the underlying callable.
	Misses int64

	// Size is the current number of in-memory entries. Zero when an
	// external Store holds the entries.
	Size int64
}

// HitRate returns the cache hit rate as a percentage.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Memo wraps a callable with result caching.
type Memo[K comparable, V any] struct {
	fn      func(ctx context.Context, key K) (V, error)
	cfg     config
	backend string

	mu       sync.Mutex
	items    map[K]*list.Element
	eviction *list.List

	hits   int64
	misses int64
}

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Func wraps fn with memoization.
func Func[K comparable, V any](fn func(ctx context.Context, key K) (V, error), opts ...Option) *Memo[K, V] {
	cfg := config{
		keyFunc: func(key any) string { return fmt.Sprintf("%#v", key) },
		logger:  observability.NopLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	backend := "memory"
	if cfg.store != nil {
		backend = "store"
	}

	return &Memo[K, V]{
		fn:       fn,
		cfg:      cfg,
		backend:  backend,
		items:    make(map[K]*list.Element),
		eviction: list.New(),
	}
}

// Call returns the cached result for key, invoking the underlying callable
// on a miss and storing its result. Errors are returned unchanged and never
// cached.
func (m *Memo[K, V]) Call(ctx context.Context, key K) (V, error) {
	if m.cfg.store != nil {
		return m.callStore(ctx, key)
	}

	if value, ok := m.lookup(key); ok {
		m.recordHit()
		return value, nil
	}

	value, err := m.fn(ctx, key)
	m.recordMiss()
	if err != nil {
		return value, err
	}

	m.insert(key, value)
	return value, nil
}

// Stats returns cache statistics.
func (m *Memo[K, V]) Stats() Stats {
	var size int64
	if m.cfg.store == nil {
		m.mu.Lock()
		size = int64(m.eviction.Len())
		m.mu.Unlock()
	}

	return Stats{
		Hits:   atomic.LoadInt64(&m.hits),
		Misses: atomic.LoadInt64(&m.misses),
		Size:   size,
	}
}

func (m *Memo[K, V]) lookup(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	if m.cfg.capacity > 0 {
		m.eviction.MoveToFront(elem)
	}
	return elem.Value.(*entry[K, V]).value, true
}

func (m *Memo[K, V]) insert(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, ok := m.items[key]; ok {
		// Concurrent populate; last writer wins.
		elem.Value = &entry[K, V]{key: key, value: value}
		return
	}

	elem := m.eviction.PushFront(&entry[K, V]{key: key, value: value})
	m.items[key] = elem

	if m.cfg.capacity > 0 {
		for m.eviction.Len() > m.cfg.capacity {
			m.evictOldest()
		}
	}
}

// evictOldest removes the least recently used entry.
// Must be called with lock held.
func (m *Memo[K, V]) evictOldest() {
	elem := m.eviction.Back()
	if elem == nil {
		return
	}
	m.eviction.Remove(elem)
	delete(m.items, elem.Value.(*entry[K, V]).key)
	GetMemoizeMetrics().evictionsTotal.WithLabelValues(m.backend).Inc()
	m.cfg.logger.Debug("memoize evicted oldest entry")
}

func (m *Memo[K, V]) recordHit() {
	atomic.AddInt64(&m.hits, 1)
	GetMemoizeMetrics().hitsTotal.WithLabelValues(m.backend).Inc()
}

func (m *Memo[K, V]) recordMiss() {
	atomic.AddInt64(&m.misses, 1)
	GetMemoizeMetrics().missesTotal.WithLabelValues(m.backend).Inc()
}

// Key2 is a comparable key for two-argument callables.
type Key2[A, B comparable] struct {
	A A
	B B
}

// Key3 is a comparable key for three-argument callables.
type Key3[A, B, C comparable] struct {
	A A
	B B
	C C
}
