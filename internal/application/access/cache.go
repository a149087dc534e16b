package access

import (
	"sync"
	"time"
)

// AllowListCache holds the allow-list members fetched from the store together
// with the time they were fetched. Entries stay valid until Invalidate is
// called or, when ttl is positive, until ttl has elapsed.
type AllowListCache struct {
	mu         sync.RWMutex
	members    map[string]struct{}
	validAt    time.Time
	loaded     bool
	generation uint64
	ttl        time.Duration
}

// NewAllowListCache creates an empty cache
func NewAllowListCache(ttl time.Duration) *AllowListCache {
	return &AllowListCache{ttl: ttl}
}

// lookup returns the cached members when present and fresh
func (c *AllowListCache) lookup(now time.Time) (map[string]struct{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, false
	}
	if c.ttl > 0 && now.Sub(c.validAt) >= c.ttl {
		return nil, false
	}
	return c.members, true
}

// Generation identifies the current cache epoch. Invalidate starts a new one.
func (c *AllowListCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}

// store saves members fetched during generation gen. Results of a fetch that
// raced with Invalidate are discarded so the cache never regresses to a
// pre-mutation view.
func (c *AllowListCache) store(members map[string]struct{}, gen uint64, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.members = members
	c.validAt = now
	c.loaded = true
	return true
}

// Invalidate drops the cached members
func (c *AllowListCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.members = nil
	c.loaded = false
	c.validAt = time.Time{}
	c.generation++
}

// ValidAt returns when the cached value was fetched, and false when nothing is cached
func (c *AllowListCache) ValidAt() (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.validAt, c.loaded
}
