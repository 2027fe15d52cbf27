package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
)

// MemoryAdapter is a process-lifetime in-memory cache. It backs the manual
// content cache: entries live until restart and are never invalidated, which is
// acceptable because extraction is idempotent per URL and source manuals change
// rarely relative to deployments. Constructed once in main and passed by
// reference to the consumers that need it.
type MemoryAdapter struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryAdapter creates a new in-memory cache adapter
func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		entries: make(map[string][]byte),
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	value, ok := a.entries[key]
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return value, nil
}

// Set stores a value in cache. Expiration is ignored; entries are scoped to
// process uptime.
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[key] = value
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.entries, key)
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.entries[key]
	return ok, nil
}

var _ providers.CacheProvider = (*MemoryAdapter)(nil)
