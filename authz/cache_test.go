package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPermissionCache(t *testing.T) {
	perms := FromStrings([]string{"products.read", "products.write"})

	t.Run("RoundTrip", func(t *testing.T) {
		cache := NewPermissionCache(5 * time.Minute)
		cache.Put("u1", perms)

		got, ok := cache.Get("u1")
		assert.True(t, ok)
		assert.Equal(t, perms, got)
	})

	t.Run("MissOnUnknownUser", func(t *testing.T) {
		cache := NewPermissionCache(5 * time.Minute)
		_, ok := cache.Get("nobody")
		assert.False(t, ok)
	})

	t.Run("ExpiresAfterTTL", func(t *testing.T) {
		cache := NewPermissionCache(5 * time.Minute)
		now := time.Now()
		cache.SetClock(func() time.Time { return now })

		cache.Put("u1", perms)
		_, ok := cache.Get("u1")
		assert.True(t, ok)

		// Exactly at the TTL boundary the entry is already stale.
		now = now.Add(5 * time.Minute)
		_, ok = cache.Get("u1")
		assert.False(t, ok)
	})

	t.Run("PutRefreshesTimestamp", func(t *testing.T) {
		cache := NewPermissionCache(5 * time.Minute)
		now := time.Now()
		cache.SetClock(func() time.Time { return now })

		cache.Put("u1", perms)
		now = now.Add(4 * time.Minute)
		cache.Put("u1", perms)
		now = now.Add(4 * time.Minute)

		_, ok := cache.Get("u1")
		assert.True(t, ok)
	})

	t.Run("InvalidateRemovesOnlyThatUser", func(t *testing.T) {
		cache := NewPermissionCache(5 * time.Minute)
		cache.Put("u1", perms)
		cache.Put("u2", perms)

		cache.Invalidate("u1")

		_, ok := cache.Get("u1")
		assert.False(t, ok)
		_, ok = cache.Get("u2")
		assert.True(t, ok)

		// Invalidating an absent user is a no-op.
		cache.Invalidate("u3")
	})

	t.Run("InvalidateAllReturnsPriorCount", func(t *testing.T) {
		cache := NewPermissionCache(5 * time.Minute)
		cache.Put("u1", perms)
		cache.Put("u2", perms)
		cache.Put("u3", perms)

		assert.Equal(t, 3, cache.InvalidateAll())
		assert.Equal(t, 0, cache.InvalidateAll())
		_, ok := cache.Get("u1")
		assert.False(t, ok)
	})

	t.Run("StatsClassifiesWithoutEvicting", func(t *testing.T) {
		cache := NewPermissionCache(5 * time.Minute)
		now := time.Now()
		cache.SetClock(func() time.Time { return now })

		cache.Put("fresh", perms)
		cache.Put("stale", perms)
		now = now.Add(6 * time.Minute)
		cache.Put("fresh", perms)

		stats := cache.Stats()
		assert.Equal(t, 2, stats.Total)
		assert.Equal(t, 1, stats.Active)
		assert.Equal(t, 1, stats.Expired)
		assert.Equal(t, 5*time.Minute, stats.TTL)

		// Reading stats leaves the expired entry in place.
		again := cache.Stats()
		assert.Equal(t, 2, again.Total)
	})
}
