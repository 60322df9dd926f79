//go:build integration

package integration

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/internal/cache"
	"fittrack/internal/core"
	"fittrack/internal/kvstore"
)

// namespaceCounter keeps each subtest in its own namespace so backends can be
// shared across the whole test binary.
var namespaceCounter int

func freshNamespace() string {
	namespaceCounter++
	return fmt.Sprintf("it_ns_%d", namespaceCounter)
}

func backends(t *testing.T) map[string]kvstore.Store {
	t.Helper()

	pg, err := kvstore.NewPostgreSQL(pgPool)
	require.NoError(t, err)

	mg, err := kvstore.NewMongoDB(mongoDatabase)
	require.NoError(t, err)

	return map[string]kvstore.Store{
		"postgresql": pg,
		"mongodb":    mg,
	}
}

func TestStoreContract(t *testing.T) {
	ctx := testCtx

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("RoundTrip", func(t *testing.T) {
				ns := freshNamespace()
				require.NoError(t, store.Put(ctx, ns, "k1", []byte("v1")))

				value, ok, err := store.Get(ctx, ns, "k1")
				require.NoError(t, err)
				require.True(t, ok)
				assert.Equal(t, []byte("v1"), value)

				// Upsert overwrites
				require.NoError(t, store.Put(ctx, ns, "k1", []byte("v2")))
				value, _, _ = store.Get(ctx, ns, "k1")
				assert.Equal(t, []byte("v2"), value)
			})

			t.Run("GetAbsentIsNotAnError", func(t *testing.T) {
				value, ok, err := store.Get(ctx, freshNamespace(), "missing")
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Nil(t, value)
			})

			t.Run("DeleteIsIdempotent", func(t *testing.T) {
				ns := freshNamespace()
				require.NoError(t, store.Put(ctx, ns, "k1", []byte("v1")))
				require.NoError(t, store.Delete(ctx, ns, "k1"))
				require.NoError(t, store.Delete(ctx, ns, "k1"))

				_, ok, err := store.Get(ctx, ns, "k1")
				require.NoError(t, err)
				assert.False(t, ok)
			})

			t.Run("ListAndClear", func(t *testing.T) {
				ns := freshNamespace()
				sibling := freshNamespace()
				require.NoError(t, store.Put(ctx, ns, "a", []byte("1")))
				require.NoError(t, store.Put(ctx, ns, "b", []byte("2")))
				require.NoError(t, store.Put(ctx, sibling, "c", []byte("3")))

				entries, err := store.List(ctx, ns)
				require.NoError(t, err)
				assert.Len(t, entries, 2)

				require.NoError(t, store.ClearNamespace(ctx, ns))
				entries, err = store.List(ctx, ns)
				require.NoError(t, err)
				assert.Empty(t, entries)

				entries, err = store.List(ctx, sibling)
				require.NoError(t, err)
				assert.Len(t, entries, 1)
			})

			t.Run("ReplaceNamespace", func(t *testing.T) {
				ns := freshNamespace()
				require.NoError(t, store.Put(ctx, ns, "old", []byte("x")))

				err := store.ReplaceNamespace(ctx, ns, map[string][]byte{
					"n1": []byte("1"),
					"n2": []byte("2"),
				})
				require.NoError(t, err)

				entries, err := store.List(ctx, ns)
				require.NoError(t, err)
				require.Len(t, entries, 2)
				_, stale := entries["old"]
				assert.False(t, stale)
			})
		})
	}
}

// TestCacheOverDurableBackends exercises the full cache contract against real
// databases: timestamps, expiry and bulk replacement must behave exactly as
// they do over the in-memory store.
func TestCacheOverDurableBackends(t *testing.T) {
	ctx := testCtx

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
			clock := func() time.Time { return now }
			col := cache.NewCollection(store, freshNamespace(), core.Program.CacheKey,
				cache.WithClock[core.Program](clock))

			expired, err := col.IsExpired(ctx, 0)
			require.NoError(t, err)
			assert.True(t, expired, "empty collection must report expired")

			program := core.NewProgram("5/3/1", core.ProgramTypeStrength, core.DifficultyIntermediate, now)
			require.NoError(t, col.Put(ctx, program))

			expired, err = col.IsExpired(ctx, 0)
			require.NoError(t, err)
			assert.False(t, expired)

			got, ok, err := col.GetByID(ctx, program.ID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, program.Name, got.Name)

			now = now.Add(6 * time.Minute)
			expired, err = col.IsExpired(ctx, 0)
			require.NoError(t, err)
			assert.True(t, expired)

			replacement := core.NewProgram("GZCLP", core.ProgramTypeStrength, core.DifficultyBeginner, now)
			require.NoError(t, col.PutMany(ctx, []core.Program{replacement}))

			all, err := col.GetAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, "GZCLP", all[0].Name)

			expired, err = col.IsExpired(ctx, 0)
			require.NoError(t, err)
			assert.False(t, expired, "bulk replace must refresh the collection")

			require.NoError(t, col.Clear(ctx))
			expired, err = col.IsExpired(ctx, 0)
			require.NoError(t, err)
			assert.True(t, expired, "cleared collection must forget its last update")
		})
	}
}
