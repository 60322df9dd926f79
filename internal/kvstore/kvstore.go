// Package kvstore provides the namespaced key-value primitive the cache layer
// is built on. Each cache collection maps 1:1 onto a namespace; a paired meta
// namespace holds the collection's last-write timestamp.
//
// Backends: SQLite, PostgreSQL and MongoDB (durable, via the storage package),
// Redis (durable, standalone), and an in-memory store with independent
// per-instance state for tests and development.
//
// Lookup misses are reported as an absent value, never as an error. Driver
// failures surface as core storage errors so callers can tell "not found"
// apart from "storage unavailable".
package kvstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"fittrack/internal/storage"
)

// Store is the namespaced key-value contract.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the raw bytes for key in namespace. ok=false if not present.
	Get(ctx context.Context, namespace, key string) (value []byte, ok bool, err error)

	// Put upserts the value for key in namespace.
	Put(ctx context.Context, namespace, key string, value []byte) error

	// Delete removes the key; absence is not an error.
	Delete(ctx context.Context, namespace, key string) error

	// List returns all entries under namespace.
	List(ctx context.Context, namespace string) (map[string][]byte, error)

	// ClearNamespace removes every entry under namespace.
	ClearNamespace(ctx context.Context, namespace string) error

	// ReplaceNamespace atomically swaps the namespace contents for entries.
	// Callers never observe a mixed old/new state.
	ReplaceNamespace(ctx context.Context, namespace string, entries map[string][]byte) error

	// Close releases any resources held by the store.
	Close() error
}

// NewFromStorage creates the appropriate Store for the given storage backend.
func NewFromStorage(store storage.Storage) (Store, error) {
	switch store.Type() {
	case storage.TypeSQLite:
		return NewSQLite(store.SQLiteDB())

	case storage.TypePostgreSQL:
		pool := store.PostgreSQLPool()
		if pool == nil {
			return nil, fmt.Errorf("PostgreSQL pool is nil")
		}
		pgxPool, ok := pool.(*pgxpool.Pool)
		if !ok {
			return nil, fmt.Errorf("invalid PostgreSQL pool type: %T", pool)
		}
		return NewPostgreSQL(pgxPool)

	case storage.TypeMongoDB:
		db := store.MongoDatabase()
		if db == nil {
			return nil, fmt.Errorf("MongoDB database is nil")
		}
		mongoDB, ok := db.(*mongo.Database)
		if !ok {
			return nil, fmt.Errorf("invalid MongoDB database type: %T", db)
		}
		return NewMongoDB(mongoDB)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", store.Type())
	}
}
