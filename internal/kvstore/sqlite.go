package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fittrack/internal/core"
)

// SQLiteStore implements Store on a single kv table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed store.
// It creates the kv table if it doesn't exist.
func NewSQLite(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			value BLOB NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (namespace, key)
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the value for key in namespace, or ok=false if absent.
func (s *SQLiteStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, namespace, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, core.NewStorageError("kvstore.get", err)
	}
	return value, true, nil
}

// Put upserts the value for key in namespace.
func (s *SQLiteStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, namespace, key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return core.NewStorageError("kvstore.put", err)
	}
	return nil
}

// Delete removes the key if present.
func (s *SQLiteStore) Delete(ctx context.Context, namespace, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM kv WHERE namespace = ? AND key = ?`, namespace, key)
	if err != nil {
		return core.NewStorageError("kvstore.delete", err)
	}
	return nil
}

// List returns all entries under namespace.
func (s *SQLiteStore) List(ctx context.Context, namespace string) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM kv WHERE namespace = ?`, namespace)
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
func (s *SQLiteStore) ClearNamespace(ctx context.Context, namespace string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ?`, namespace)
	if err != nil {
		return core.NewStorageError("kvstore.clear", err)
	}
	return nil
}

// ReplaceNamespace swaps the namespace contents inside one transaction, so a
// reader on another connection never sees a half-replaced namespace.
func (s *SQLiteStore) ReplaceNamespace(ctx context.Context, namespace string, entries map[string][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.NewStorageError("kvstore.replace", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ?`, namespace); err != nil {
		return core.NewStorageError("kvstore.replace", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for key, value := range entries {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)`,
			namespace, key, value, now); err != nil {
			return core.NewStorageError("kvstore.replace", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return core.NewStorageError("kvstore.replace", err)
	}
	return nil
}

// Close is a no-op: the *sql.DB is owned by the storage layer.
func (s *SQLiteStore) Close() error {
	return nil
}
