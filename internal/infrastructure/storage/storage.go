// internal/infrastructure/storage/storage.go
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key has no stored snapshot.
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable key-value snapshot store. Values are serialized as JSON
// on save and deserialized on load. Every store mutation in the domain layer
// writes through a Store so a reload rehydrates the same state.
type Store interface {
	// Save serializes value and stores it under key with the given TTL.
	// A zero TTL means no expiration.
	Save(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Load deserializes the snapshot stored under key into dest.
	// Returns ErrNotFound if the key has no snapshot.
	Load(ctx context.Context, key string, dest interface{}) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
