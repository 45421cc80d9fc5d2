// Package cache provides the short-lived, content-keyed caches used on the
// query path. Entries are evicted in the background by a go-cache janitor
// and additionally checked against an injectable clock on read, so tests
// can expire entries without sleeping.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a string-keyed cache whose entries expire a fixed duration after
// they were written. Reads never extend an entry's lifetime.
type TTL[V any] struct {
	items *gocache.Cache
	ttl   time.Duration
	clock Clock
}

type Option func(*options)

type options struct {
	clock           Clock
	cleanupInterval time.Duration
}

// WithClock overrides the clock used for expiry checks.
func WithClock(c Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithCleanupInterval sets how often expired entries are purged.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) { o.cleanupInterval = d }
}

func New[V any](ttl time.Duration, opts ...Option) *TTL[V] {
	o := options{clock: SystemClock, cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(&o)
	}

	return &TTL[V]{
		items: gocache.New(ttl, o.cleanupInterval),
		ttl:   ttl,
		clock: o.clock,
	}
}

func (c *TTL[V]) Get(key string) (V, bool) {
	var zero V

	raw, ok := c.items.Get(key)
	if !ok {
		return zero, false
	}

	e, ok := raw.(entry[V])
	if !ok || !c.clock.Now().Before(e.expiresAt) {
		c.items.Delete(key)
		return zero, false
	}

	return e.value, true
}

func (c *TTL[V]) Set(key string, value V) {
	c.items.Set(key, entry[V]{value: value, expiresAt: c.clock.Now().Add(c.ttl)}, c.ttl)
}

func (c *TTL[V]) Delete(key string) {
	c.items.Delete(key)
}

// Len counts stored entries, including ones the janitor has not purged yet.
func (c *TTL[V]) Len() int {
	return c.items.ItemCount()
}

func (c *TTL[V]) Flush() {
	c.items.Flush()
}
