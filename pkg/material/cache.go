package material

import "sync"

// Cache collapses materials with identical content to a single instance.
// One cache lives per mapping session, never longer, so edits in one
// document can not leak into another.
type Cache struct {
	mu       sync.Mutex
	byKey    map[uint64]*Material
	hitCount int
}

// NewCache returns an empty material cache.
func NewCache() *Cache {
	return &Cache{byKey: make(map[uint64]*Material)}
}

// Intern returns the canonical material for m's content, registering m if
// its content was not seen before.
func (c *Cache) Intern(m *Material) *Material {
	key := m.CacheKey()
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.byKey[key]; ok {
		c.hitCount++
		return cached
	}
	c.byKey[key] = m
	return m
}

// Len returns the number of distinct materials seen.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byKey)
}

// Hits returns how many Intern calls were answered from the cache.
func (c *Cache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hitCount
}
