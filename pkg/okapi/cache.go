package okapi

import (
	"context"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/openfolio-io/okapi-client/internal/constants"
)

// CacheEntry is one durable cache item.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry's lifetime has passed. A zero
// ExpiresAt means the entry does not expire.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// Cache is a durable keyed store with per-entry TTL. Misses are a normal,
// expected outcome reported as ErrCacheKeyNotFound; backends perform no
// retry or failure recovery of their own.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheKeys builds tenant-namespaced cache keys so that multiple tenant
// sessions sharing one physical cache never collide.
type CacheKeys struct {
	tenant string
}

// NewCacheKeys creates a key builder for a tenant.
func NewCacheKeys(tenant string) CacheKeys {
	return CacheKeys{tenant: tenant}
}

// Token returns the key for the session token at the given scope.
func (k CacheKeys) Token(scope TokenScope) string {
	return fmt.Sprintf("okapi/%s/token/%s", k.tenant, scope)
}

// Locations returns the key for the derived location map.
func (k CacheKeys) Locations() string {
	return fmt.Sprintf("okapi/%s/lookup/locations", k.tenant)
}

// AddressTypes returns the key for the derived address-type map.
func (k CacheKeys) AddressTypes() string {
	return fmt.Sprintf("okapi/%s/lookup/address-types", k.tenant)
}

// ModuleVersion returns the key for a module version probe.
func (k CacheKeys) ModuleVersion(modulePrefix string) string {
	return fmt.Sprintf("okapi/%s/module/%s", k.tenant, modulePrefix)
}

// MemoryCache is an in-process cache backend built on ttlcache.
type MemoryCache struct {
	cache *ttlcache.Cache[string, *CacheEntry]
}

// NewMemoryCache creates a memory cache holding at most maxSize entries;
// the least recently used entry is evicted beyond that.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = constants.DefaultCacheSize
	}

	cache := ttlcache.New(
		ttlcache.WithCapacity[string, *CacheEntry](uint64(maxSize)),
		ttlcache.WithDisableTouchOnHit[string, *CacheEntry](),
	)

	return &MemoryCache{cache: cache}
}

// Get retrieves an entry, reporting misses and expired entries as errors.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	item := c.cache.Get(key)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	entry := item.Value()
	if entry.Expired() {
		c.cache.Delete(key)

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores an entry. Entries with a zero ExpiresAt never expire.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	if len(entry.Data) > constants.MaxCacheValueSize {
		return fmt.Errorf("%w: %d bytes", ErrCacheValueTooLarge, len(entry.Data))
	}

	ttl := ttlcache.NoTTL
	if !entry.ExpiresAt.IsZero() {
		ttl = time.Until(entry.ExpiresAt)
		if ttl <= 0 {
			// Already expired; nothing to store.
			return nil
		}
	}

	c.cache.Set(key, entry, ttl)

	return nil
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.cache.DeleteAll()

	return nil
}

// Has reports whether a live entry exists for the key.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	item := c.cache.Get(key)
	if item == nil {
		return false
	}

	return !item.Value().Expired()
}

// Cleanup evicts expired entries immediately.
func (c *MemoryCache) Cleanup() {
	c.cache.DeleteExpired()
}
