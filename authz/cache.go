package authz

import (
	"sync"
	"time"
)

// PermissionCache maps user IDs to their resolved permission sets with a
// fixed TTL. It is an optimization, not a source of truth: concurrent misses
// for the same user may each fetch and populate independently, and the last
// write wins. Expiry is checked lazily on Get; there is no background sweep.
type PermissionCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry struct {
	perms     []Permission
	fetchedAt time.Time
}

// CacheStats is a diagnostic snapshot of the cache. Reading it never evicts.
type CacheStats struct {
	Total   int           `json:"total"`
	Active  int           `json:"active"`
	Expired int           `json:"expired"`
	TTL     time.Duration `json:"ttl"`
}

// NewPermissionCache creates a cache whose entries expire after ttl.
func NewPermissionCache(ttl time.Duration) *PermissionCache {
	return &PermissionCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetClock overrides the cache's time source. Tests use this to simulate
// entries aging past the TTL.
func (c *PermissionCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Get returns the cached permission set for a user. An entry at or past the
// TTL is a miss; it stays in place until overwritten or invalidated.
func (c *PermissionCache) Get(userID string) ([]Permission, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return entry.perms, true
}

// Put stores or wholesale-replaces a user's permission set, stamped with the
// current time.
func (c *PermissionCache) Put(userID string, perms []Permission) {
	c.mu.Lock()
	c.entries[userID] = cacheEntry{perms: perms, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Invalidate removes a single user's entry. Absent entries are not an error.
func (c *PermissionCache) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}

// InvalidateAll removes every entry and returns how many were removed.
func (c *PermissionCache) InvalidateAll() int {
	c.mu.Lock()
	removed := len(c.entries)
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	return removed
}

// Stats classifies entries as active or expired against the current time.
func (c *PermissionCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{Total: len(c.entries), TTL: c.ttl}
	now := c.now()
	for _, entry := range c.entries {
		if now.Sub(entry.fetchedAt) >= c.ttl {
			stats.Expired++
		} else {
			stats.Active++
		}
	}
	return stats
}
