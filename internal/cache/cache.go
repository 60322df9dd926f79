// Package cache provides per-entity cache collections with coarse staleness
// tracking. Each collection lives in one kvstore namespace plus a paired meta
// namespace holding a single last-write timestamp for the whole collection —
// the app only needs "has this collection been touched recently", not
// record-level freshness.
//
// Collections perform exact key matching only. Whatever normalization policy
// applies to a key family (exercise ids are lowercased) is owned by the
// repository layer and must be applied before calling into the cache; a put
// under "abc" is invisible to a get of "ABC".
package cache

import (
	"context"
	"encoding/json"
	"time"

	"fittrack/internal/core"
	"fittrack/internal/kvstore"
)

// DefaultMaxAge is the staleness threshold used when a caller does not
// override it: a collection untouched for longer than this reports expired.
const DefaultMaxAge = 5 * time.Minute

// metaSuffix derives the timestamp namespace from the collection namespace.
const metaSuffix = "_meta"

// lastUpdateKey is the single key used inside a meta namespace.
const lastUpdateKey = "last_update"

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

// Collection is a typed cache over one kvstore namespace.
type Collection[T any] struct {
	store kvstore.Store
	ns    string
	meta  string
	key   func(T) string
	clock Clock
}

// Option configures a Collection.
type Option[T any] func(*Collection[T])

// WithClock overrides the wall clock, for deterministic expiry tests.
func WithClock[T any](clock Clock) Option[T] {
	return func(c *Collection[T]) { c.clock = clock }
}

// NewCollection creates a collection over the given namespace. key extracts
// the cache key from a value; it is applied as-is, with no normalization.
func NewCollection[T any](store kvstore.Store, namespace string, key func(T) string, opts ...Option[T]) *Collection[T] {
	c := &Collection[T]{
		store: store,
		ns:    namespace,
		meta:  namespace + metaSuffix,
		key:   key,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Namespace returns the kvstore namespace backing this collection.
func (c *Collection[T]) Namespace() string { return c.ns }

// GetAll returns every cached value. Order is not meaningful.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	entries, err := c.store.List(ctx, c.ns)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, raw := range entries {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, core.NewStorageError("cache.getAll", err)
		}
		out = append(out, v)
	}
	return out, nil
}

// GetByID returns the value cached under key, exact match only.
func (c *Collection[T]) GetByID(ctx context.Context, key string) (T, bool, error) {
	var v T
	raw, ok, err := c.store.Get(ctx, c.ns, key)
	if err != nil {
		return v, false, err
	}
	if !ok {
		cacheMisses.WithLabelValues(c.ns).Inc()
		return v, false, nil
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, core.NewStorageError("cache.getById", err)
	}
	cacheHits.WithLabelValues(c.ns).Inc()
	return v, true, nil
}

// Put upserts a single value keyed by its natural id and stamps the
// collection's last-write timestamp. A failed write never advances the
// timestamp, so expiry bookkeeping cannot be corrupted by a storage outage.
func (c *Collection[T]) Put(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return core.NewStorageError("cache.put", err)
	}
	if err := c.store.Put(ctx, c.ns, c.key(value), raw); err != nil {
		return err
	}
	return c.touch(ctx)
}

// PutMany replaces the entire collection with the given values and stamps the
// last-write timestamp once. The swap is atomic from the caller's perspective.
func (c *Collection[T]) PutMany(ctx context.Context, values []T) error {
	entries := make(map[string][]byte, len(values))
	for _, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return core.NewStorageError("cache.putMany", err)
		}
		entries[c.key(v)] = raw
	}
	if err := c.store.ReplaceNamespace(ctx, c.ns, entries); err != nil {
		return err
	}
	return c.touch(ctx)
}

// Remove deletes the value under key if present. Deleting an absent key is
// not an error; the last-write timestamp is stamped either way.
func (c *Collection[T]) Remove(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, c.ns, key); err != nil {
		return err
	}
	return c.touch(ctx)
}

// Clear empties the collection and clears the last-write timestamp. A cleared
// collection reports no prior update, so IsExpired is immediately true.
func (c *Collection[T]) Clear(ctx context.Context) error {
	if err := c.store.ClearNamespace(ctx, c.ns); err != nil {
		return err
	}
	return c.store.Delete(ctx, c.meta, lastUpdateKey)
}

// LastUpdate returns when the collection was last written, or ok=false if it
// has never been written to (or was cleared).
func (c *Collection[T]) LastUpdate(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := c.store.Get(ctx, c.meta, lastUpdateKey)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	ts, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, false, core.NewStorageError("cache.lastUpdate", err)
	}
	return ts, true, nil
}

// IsExpired reports whether the collection is stale: true when it has no
// last-write timestamp, otherwise true iff now - lastUpdate > maxAge.
// Pass maxAge <= 0 to use DefaultMaxAge.
func (c *Collection[T]) IsExpired(ctx context.Context, maxAge time.Duration) (bool, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	last, ok, err := c.LastUpdate(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		cacheExpiries.WithLabelValues(c.ns).Inc()
		return true, nil
	}
	expired := c.clock().Sub(last) > maxAge
	if expired {
		cacheExpiries.WithLabelValues(c.ns).Inc()
	}
	return expired, nil
}

func (c *Collection[T]) touch(ctx context.Context) error {
	now := c.clock().UTC().Format(time.RFC3339Nano)
	return c.store.Put(ctx, c.meta, lastUpdateKey, []byte(now))
}
