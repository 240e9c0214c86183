// internal/infrastructure/storage/memory.go
package storage

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation used in tests and as a
// stand-in when no Redis is available. Values are round-tripped through JSON
// so behavior matches the Redis-backed store.
type MemoryStore struct {
	mu      sync.RWMutex
	data    map[string][]byte
	expires map[string]time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:    make(map[string][]byte),
		expires: make(map[string]time.Time),
	}
}

// Save serializes value and stores it under key
func (m *MemoryStore) Save(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = data
	if ttl > 0 {
		m.expires[key] = time.Now().UTC().Add(ttl)
	} else {
		delete(m.expires, key)
	}
	return nil
}

// Load deserializes the snapshot stored under key into dest
func (m *MemoryStore) Load(ctx context.Context, key string, dest interface{}) error {
	m.mu.RLock()
	data, ok := m.data[key]
	expiry, hasExpiry := m.expires[key]
	m.mu.RUnlock()

	if !ok {
		return ErrNotFound
	}
	if hasExpiry && time.Now().UTC().After(expiry) {
		m.mu.Lock()
		delete(m.data, key)
		delete(m.expires, key)
		m.mu.Unlock()
		return ErrNotFound
	}

	return json.Unmarshal(data, dest)
}

// Delete removes the given keys
func (m *MemoryStore) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.data, key)
		delete(m.expires, key)
	}
	return nil
}
