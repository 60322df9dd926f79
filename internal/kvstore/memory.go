package kvstore

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const memoryShardCount = 8

// memoryShard holds a subset of namespaces behind its own lock, so namespace
// operations on unrelated collections never contend.
type memoryShard struct {
	mu         sync.RWMutex
	namespaces map[string]map[string][]byte
}

// MemoryStore implements Store entirely in memory. Every MemoryStore has
// independent state: two instances never share data, which is what test
// isolation relies on. Contents do not survive the process.
type MemoryStore struct {
	shards [memoryShardCount]*memoryShard
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	s := &MemoryStore{}
	for i := range s.shards {
		s.shards[i] = &memoryShard{namespaces: make(map[string]map[string][]byte)}
	}
	return s
}

// shardFor selects the shard owning a namespace. Namespace-level operations
// (List, ClearNamespace, ReplaceNamespace) need the whole namespace under one
// lock, so sharding is by namespace rather than by key.
func (s *MemoryStore) shardFor(namespace string) *memoryShard {
	return s.shards[xxhash.Sum64String(namespace)%memoryShardCount]
}

// Get returns the value for key in namespace, or ok=false if absent.
func (s *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	sh := s.shardFor(namespace)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	value, ok := sh.namespaces[namespace][key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Put upserts the value for key in namespace.
func (s *MemoryStore) Put(_ context.Context, namespace, key string, value []byte) error {
	sh := s.shardFor(namespace)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	ns, ok := sh.namespaces[namespace]
	if !ok {
		ns = make(map[string][]byte)
		sh.namespaces[namespace] = ns
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	ns[key] = stored
	return nil
}

// Delete removes the key; absence is not an error.
func (s *MemoryStore) Delete(_ context.Context, namespace, key string) error {
	sh := s.shardFor(namespace)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	delete(sh.namespaces[namespace], key)
	return nil
}

// List returns a copy of all entries under namespace.
func (s *MemoryStore) List(_ context.Context, namespace string) (map[string][]byte, error) {
	sh := s.shardFor(namespace)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	out := make(map[string][]byte, len(sh.namespaces[namespace]))
	for key, value := range sh.namespaces[namespace] {
		cp := make([]byte, len(value))
		copy(cp, value)
		out[key] = cp
	}
	return out, nil
}

// ClearNamespace removes every entry under namespace.
func (s *MemoryStore) ClearNamespace(_ context.Context, namespace string) error {
	sh := s.shardFor(namespace)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	delete(sh.namespaces, namespace)
	return nil
}

// ReplaceNamespace swaps in the new contents with a single map assignment:
// readers see either the old namespace or the new one, never a mix.
func (s *MemoryStore) ReplaceNamespace(_ context.Context, namespace string, entries map[string][]byte) error {
	staged := make(map[string][]byte, len(entries))
	for key, value := range entries {
		cp := make([]byte, len(value))
		copy(cp, value)
		staged[key] = cp
	}

	sh := s.shardFor(namespace)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.namespaces[namespace] = staged
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
