package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"fittrack/internal/core"
)

// DefaultRedisPrefix namespaces all fittrack hashes in a shared Redis.
const DefaultRedisPrefix = "fittrack"

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379" or "redis://:password@host:6379/0")
	URL string

	// Prefix is prepended to every namespace hash key (defaults to "fittrack")
	Prefix string
}

// RedisStore implements Store with one Redis hash per namespace.
// This is suitable when the app state should survive process restarts without
// a local database file.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a Redis-backed store.
func NewRedis(cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}

	slog.Info("redis kv store connected", "prefix", prefix)

	return &RedisStore{client: client, prefix: prefix}, nil
}

func (s *RedisStore) hashKey(namespace string) string {
	return s.prefix + ":" + namespace
}

// Get returns the value for key in namespace, or ok=false if absent.
func (s *RedisStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	data, err := s.client.HGet(ctx, s.hashKey(namespace), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, core.NewStorageError("kvstore.get", err)
	}
	return data, true, nil
}

// Put upserts the value for key in namespace.
func (s *RedisStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	if err := s.client.HSet(ctx, s.hashKey(namespace), key, value).Err(); err != nil {
		return core.NewStorageError("kvstore.put", err)
	}
	return nil
}

// Delete removes the key if present.
func (s *RedisStore) Delete(ctx context.Context, namespace, key string) error {
	if err := s.client.HDel(ctx, s.hashKey(namespace), key).Err(); err != nil {
		return core.NewStorageError("kvstore.delete", err)
	}
	return nil
}

// List returns all entries under namespace.
func (s *RedisStore) List(ctx context.Context, namespace string) (map[string][]byte, error) {
	raw, err := s.client.HGetAll(ctx, s.hashKey(namespace)).Result()
	if err != nil {
		return nil, core.NewStorageError("kvstore.list", err)
	}
	out := make(map[string][]byte, len(raw))
	for key, value := range raw {
		out[key] = []byte(value)
	}
	return out, nil
}

// ClearNamespace removes the namespace hash.
func (s *RedisStore) ClearNamespace(ctx context.Context, namespace string) error {
	if err := s.client.Del(ctx, s.hashKey(namespace)).Err(); err != nil {
		return core.NewStorageError("kvstore.clear", err)
	}
	return nil
}

// ReplaceNamespace swaps the namespace hash in a MULTI/EXEC pipeline, so the
// delete and repopulate apply as one unit.
func (s *RedisStore) ReplaceNamespace(ctx context.Context, namespace string, entries map[string][]byte) error {
	hash := s.hashKey(namespace)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, hash)
	if len(entries) > 0 {
		fields := make(map[string]interface{}, len(entries))
		for key, value := range entries {
			fields[key] = value
		}
		pipe.HSet(ctx, hash, fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return core.NewStorageError("kvstore.replace", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
