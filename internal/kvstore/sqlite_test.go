package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"fittrack/internal/storage"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := storage.NewSQLite(storage.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("failed to create SQLite storage: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	store, err := NewSQLite(st.SQLiteDB())
	if err != nil {
		t.Fatalf("failed to create kv store: %v", err)
	}
	return store
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		store := newTestSQLite(t)

		if err := store.Put(ctx, "custom_exercises", "bench-press", []byte(`{"id":"bench-press"}`)); err != nil {
			t.Fatalf("unexpected error on put: %v", err)
		}

		value, ok, err := store.Get(ctx, "custom_exercises", "bench-press")
		if err != nil {
			t.Fatalf("unexpected error on get: %v", err)
		}
		if !ok {
			t.Fatal("expected value, got absent")
		}
		if string(value) != `{"id":"bench-press"}` {
			t.Errorf("unexpected value: %q", value)
		}

		// Upsert overwrites
		if err := store.Put(ctx, "custom_exercises", "bench-press", []byte(`{"id":"bench-press","v":2}`)); err != nil {
			t.Fatalf("unexpected error on second put: %v", err)
		}
		value, _, _ = store.Get(ctx, "custom_exercises", "bench-press")
		if string(value) != `{"id":"bench-press","v":2}` {
			t.Errorf("upsert did not overwrite: %q", value)
		}
	})

	t.Run("GetAbsentIsNotAnError", func(t *testing.T) {
		store := newTestSQLite(t)
		value, ok, err := store.Get(ctx, "programs", "missing")
		if err != nil {
			t.Fatalf("absent key must not error: %v", err)
		}
		if ok || value != nil {
			t.Fatalf("expected absent, got ok=%v value=%q", ok, value)
		}
	})

	t.Run("ListAndClear", func(t *testing.T) {
		store := newTestSQLite(t)
		_ = store.Put(ctx, "programs", "p1", []byte("1"))
		_ = store.Put(ctx, "programs", "p2", []byte("2"))
		_ = store.Put(ctx, "workout_sessions", "s1", []byte("3"))

		entries, err := store.List(ctx, "programs")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}

		if err := store.ClearNamespace(ctx, "programs"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entries, _ = store.List(ctx, "programs")
		if len(entries) != 0 {
			t.Fatalf("expected cleared namespace, got %d entries", len(entries))
		}

		// Sibling namespace untouched
		entries, _ = store.List(ctx, "workout_sessions")
		if len(entries) != 1 {
			t.Fatalf("sibling namespace lost entries: %d", len(entries))
		}
	})

	t.Run("ReplaceNamespace", func(t *testing.T) {
		store := newTestSQLite(t)
		_ = store.Put(ctx, "programs", "p1", []byte("old"))

		err := store.ReplaceNamespace(ctx, "programs", map[string][]byte{
			"p2": []byte("new-2"),
			"p3": []byte("new-3"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		entries, _ := store.List(ctx, "programs")
		if len(entries) != 2 {
			t.Fatalf("expected replaced contents, got %d entries", len(entries))
		}
		if _, stale := entries["p1"]; stale {
			t.Fatal("old entry survived the replace")
		}
	})

	t.Run("ReplaceWithEmptyClears", func(t *testing.T) {
		store := newTestSQLite(t)
		_ = store.Put(ctx, "programs", "p1", []byte("old"))

		if err := store.ReplaceNamespace(ctx, "programs", nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entries, _ := store.List(ctx, "programs")
		if len(entries) != 0 {
			t.Fatalf("expected empty namespace, got %d entries", len(entries))
		}
	})
}
