package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fittrack/internal/core"
)

// PostgreSQLStore implements Store on a single kv table.
type PostgreSQLStore struct {
	pool *pgxpool.Pool
}

// NewPostgreSQL creates a PostgreSQL-backed store.
// It creates the kv table if it doesn't exist.
func NewPostgreSQL(pool *pgxpool.Pool) (*PostgreSQLStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("connection pool is required")
	}

	_, err := pool.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS kv (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (namespace, key)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &PostgreSQLStore{pool: pool}, nil
}

// Get returns the value for key in namespace, or ok=false if absent.
func (s *PostgreSQLStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM kv WHERE namespace = $1 AND key = $2`, namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, core.NewStorageError("kvstore.get", err)
	}
	return value, true, nil
}

// Put upserts the value for key in namespace.
func (s *PostgreSQLStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO kv (namespace, key, value, updated_at) VALUES ($1, $2, $3, now())
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, namespace, key, value)
	if err != nil {
		return core.NewStorageError("kvstore.put", err)
	}
	return nil
}

// Delete removes the key if present.
func (s *PostgreSQLStore) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM kv WHERE namespace = $1 AND key = $2`, namespace, key)
	if err != nil {
		return core.NewStorageError("kvstore.delete", err)
	}
	return nil
}

// List returns all entries under namespace.
func (s *PostgreSQLStore) List(ctx context.Context, namespace string) (map[string][]byte, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT key, value FROM kv WHERE namespace = $1`, namespace)
	if err != nil {
		return nil, core.NewStorageError("kvstore.list", err)
	}
	defer rows.Close()

	out := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, core.NewStorageError("kvstore.list", err)
		}
		out[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, core.NewStorageError("kvstore.list", err)
	}
	return out, nil
}

// ClearNamespace removes every entry under namespace.
func (s *PostgreSQLStore) ClearNamespace(ctx context.Context, namespace string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM kv WHERE namespace = $1`, namespace)
	if err != nil {
		return core.NewStorageError("kvstore.clear", err)
	}
	return nil
}

// ReplaceNamespace swaps the namespace contents inside one transaction.
func (s *PostgreSQLStore) ReplaceNamespace(ctx context.Context, namespace string, entries map[string][]byte) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return core.NewStorageError("kvstore.replace", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM kv WHERE namespace = $1`, namespace); err != nil {
		return core.NewStorageError("kvstore.replace", err)
	}

	for key, value := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO kv (namespace, key, value, updated_at) VALUES ($1, $2, $3, now())`,
			namespace, key, value); err != nil {
			return core.NewStorageError("kvstore.replace", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return core.NewStorageError("kvstore.replace", err)
	}
	return nil
}

// Close is a no-op: the pool is owned by the storage layer.
func (s *PostgreSQLStore) Close() error {
	return nil
}
