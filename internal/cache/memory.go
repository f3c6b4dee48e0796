package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is the in-process store backed by patrickmn/go-cache
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates an in-memory store. defaultTTL applies when Set is called
// with a negative ttl; cleanupInterval controls how often expired items are purged.
func NewMemory(defaultTTL, cleanupInterval time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &Memory{cache: gocache.New(defaultTTL, cleanupInterval)}
}

// Get retrieves a copy of the value stored under key
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	value, ok := m.Peek(key)
	if !ok {
		return nil, ErrMiss
	}
	return value, nil
}

// Peek reads without a context; safe to call from the UI loop
func (m *Memory) Peek(key string) ([]byte, bool) {
	raw, found := m.cache.Get(key)
	if !found {
		return nil, false
	}
	stored, ok := raw.([]byte)
	if !ok {
		return nil, false
	}
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, true
}

// Set stores a copy of value
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	switch {
	case ttl == 0:
		m.cache.Set(key, stored, gocache.NoExpiration)
	case ttl < 0:
		m.cache.Set(key, stored, gocache.DefaultExpiration)
	default:
		m.cache.Set(key, stored, ttl)
	}
	return nil
}

// Delete removes key
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.cache.Delete(key)
	return nil
}

// Len reports the number of items, including expired ones not yet purged
func (m *Memory) Len() int {
	return m.cache.ItemCount()
}

// Flush drops every item
func (m *Memory) Flush() {
	m.cache.Flush()
}
