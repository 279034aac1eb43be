package cache

import (
	"container/list"
	"sync"
	"time"
)

// cacheEntry represents a single cached review with its expiry
type cacheEntry struct {
	text      string
	expiresAt time.Time
	element   *list.Element // position in insertion order
}

// isExpired checks if the cache entry has passed its expiry
func (e *cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// RequestCache is an in-memory fingerprint→text cache with TTL and
// strict insertion-order (FIFO) eviction: a lookup never promotes an
// entry and overwriting a key keeps its original position, so the
// entry evicted at capacity is always the oldest ever inserted.
// Thread-safe; a single mutex covers lookups, stores, and sweeps.
type RequestCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   *list.List // front = oldest inserted
	maxSize int
	ttl     time.Duration
	hits    uint64
	misses  uint64
}

// NewRequestCache creates a RequestCache with the given capacity and TTL
func NewRequestCache(maxSize int, ttl time.Duration) *RequestCache {
	return &RequestCache{
		entries: make(map[string]*cacheEntry),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Lookup returns the cached text for a fingerprint.
// Expired entries are treated as absent and purged lazily.
func (c *RequestCache) Lookup(fingerprint string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[fingerprint]
	if !exists || entry.isExpired(time.Now()) {
		c.misses++
		if exists {
			c.removeEntry(fingerprint)
		}
		return "", false
	}

	c.hits++
	return entry.text, true
}

// Store caches text under a fingerprint, stamping expiry at store time
// plus the fixed TTL. When the cache is full it evicts the single
// oldest-inserted entry first.
func (c *RequestCache) Store(fingerprint, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[fingerprint]; exists {
		// Refresh in place; the insertion position is kept.
		entry.text = text
		entry.expiresAt = time.Now().Add(c.ttl)
		return
	}

	if c.order.Len() >= c.maxSize {
		c.evictOldest()
	}

	entry := &cacheEntry{
		text:      text,
		expiresAt: time.Now().Add(c.ttl),
	}
	entry.element = c.order.PushBack(fingerprint)
	c.entries[fingerprint] = entry
}

// Sweep removes all expired entries and returns how many were purged.
// Should be called periodically from a background goroutine.
func (c *RequestCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	expired := make([]string, 0)
	for fingerprint, entry := range c.entries {
		if entry.isExpired(now) {
			expired = append(expired, fingerprint)
		}
	}
	for _, fingerprint := range expired {
		c.removeEntry(fingerprint)
	}

	return len(expired)
}

// Clear removes all entries and returns how many were dropped
func (c *RequestCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := len(c.entries)
	c.entries = make(map[string]*cacheEntry)
	c.order.Init()
	return n
}

// Len returns the current number of entries, expired ones included
func (c *RequestCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Stats returns cache statistics
func (c *RequestCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:    c.order.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: c.calculateHitRate(),
	}
}

// Stats represents cache statistics
type Stats struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"max_size"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// calculateHitRate calculates the cache hit rate (must be called with lock held)
func (c *RequestCache) calculateHitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// removeEntry removes an entry (must be called with lock held)
func (c *RequestCache) removeEntry(fingerprint string) {
	if entry, exists := c.entries[fingerprint]; exists {
		c.order.Remove(entry.element)
		delete(c.entries, fingerprint)
	}
}

// evictOldest evicts the oldest-inserted entry (must be called with lock held)
func (c *RequestCache) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	fingerprint := front.Value.(string)
	c.order.Remove(front)
	delete(c.entries, fingerprint)
}

// StartSweeper runs Sweep on a ticker until stopCh closes
func (c *RequestCache) StartSweeper(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-stopCh:
			return
		}
	}
}
