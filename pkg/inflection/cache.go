package inflection

import "sync"

// cache holds one direction's compiled matchers. A published slice is never
// modified; rebuilds swap in a new one.
type cache struct {
	mu       sync.RWMutex
	matchers []matcher
}

func (c *cache) load() []matcher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.matchers
}

func (c *cache) swap(matchers []matcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.matchers = matchers
}
