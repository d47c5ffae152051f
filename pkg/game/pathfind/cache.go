package pathfind

import (
	"time"

	"mapforge/pkg/engine/geom"
)

type cacheKey struct {
	start, end geom.Point
	grid       uint64
	costs      uint64
	diagonal   bool
	heuristic  Heuristic
}

type cacheEntry struct {
	result  Result
	expires time.Time
}

// pathCache is a bounded, time-expiring result cache. Eviction is in
// insertion order once expired entries have been purged.
type pathCache struct {
	ttl     time.Duration
	size    int
	entries map[cacheKey]cacheEntry
	order   []cacheKey
}

func newPathCache(ttl time.Duration, size int) *pathCache {
	if size <= 0 {
		size = 256
	}
	return &pathCache{ttl: ttl, size: size, entries: make(map[cacheKey]cacheEntry)}
}

func (c *pathCache) enabled() bool {
	return c != nil && c.ttl > 0
}

func (c *pathCache) get(k cacheKey, now time.Time) (Result, bool) {
	e, ok := c.entries[k]
	if !ok {
		return Result{}, false
	}
	if !now.Before(e.expires) {
		return Result{}, false
	}
	return e.result, true
}

func (c *pathCache) put(k cacheKey, r Result, now time.Time) {
	if _, exists := c.entries[k]; !exists {
		if len(c.entries) >= c.size {
			c.purge(now)
		}
		for len(c.entries) >= c.size && len(c.order) > 0 {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
		c.order = append(c.order, k)
	}
	c.entries[k] = cacheEntry{result: r, expires: now.Add(c.ttl)}
}

func (c *pathCache) purge(now time.Time) {
	kept := c.order[:0]
	for _, k := range c.order {
		e, ok := c.entries[k]
		if !ok {
			continue
		}
		if !now.Before(e.expires) {
			delete(c.entries, k)
			continue
		}
		kept = append(kept, k)
	}
	c.order = kept
}

func (c *pathCache) clear() {
	clear(c.entries)
	c.order = c.order[:0]
}

func (c *pathCache) len() int {
	return len(c.entries)
}
