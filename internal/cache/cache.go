// Package cache stores encoded query results by key.
//
// Two tiers exist: an in-process store that the UI loop may read
// synchronously, and an optional shared Redis store consulted only from
// fetch goroutines.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is not present (or has expired)
var ErrMiss = errors.New("cache: key not found")

// Store defines the interface for cache operations.
type Store interface {
	// Get retrieves a value by key, returning ErrMiss when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A ttl of 0 stores indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Peeker is implemented by stores that can answer without blocking.
// The UI loop only ever peeks.
type Peeker interface {
	Peek(key string) ([]byte, bool)
}
