// Package repository ties the cache collections to the remote datasource.
// Repositories serve reads from the cache while it is fresh and refetch the
// whole collection when it has expired; writes go straight to the cache.
// Retry policy deliberately lives here and not in the cache layer — and for
// now the policy is "no retries".
package repository

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"fittrack/internal/cache"
)

// Config holds the knobs shared by all repositories.
type Config struct {
	// MaxAge is the staleness threshold for cached collections.
	// Zero means cache.DefaultMaxAge.
	MaxAge time.Duration

	// Clock is injectable for tests; nil means time.Now.
	Clock cache.Clock
}

func (c Config) clock() cache.Clock {
	if c.Clock == nil {
		return time.Now
	}
	return c.Clock
}

// refresher is the shared read-through core: check expiry, refetch the whole
// collection once, bulk-replace the cache. Concurrent refreshes of the same
// collection collapse into a single fetch via singleflight.
type refresher[T any] struct {
	col    *cache.Collection[T]
	fetch  func(context.Context) ([]T, error)
	maxAge time.Duration
	sf     singleflight.Group
}

func (r *refresher[T]) refreshIfStale(ctx context.Context) error {
	expired, err := r.col.IsExpired(ctx, r.maxAge)
	if err != nil {
		return err
	}
	if !expired {
		return nil
	}

	_, err, _ = r.sf.Do(r.col.Namespace(), func() (interface{}, error) {
		values, err := r.fetch(ctx)
		if err != nil {
			return nil, err
		}
		return nil, r.col.PutMany(ctx, values)
	})
	if err != nil {
		return err
	}
	slog.Debug("cache collection refreshed", "collection", r.col.Namespace())
	return nil
}
