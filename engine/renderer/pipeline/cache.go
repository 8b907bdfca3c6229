package pipeline

import "sync"

// Cache stores built pipelines by Key. When a shader is reloaded its version changes, so
// lookups miss and a new pipeline is built; Evict hands back the superseded ones for release.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]Pipeline
}

// NewCache creates an empty pipeline cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]Pipeline)}
}

// Get returns the pipeline stored under key.
//
// Parameters:
//   - key: the pipeline key
//
// Returns:
//   - Pipeline: the cached pipeline
//   - bool: true if present
func (c *Cache) Get(key Key) (Pipeline, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.entries[key]
	return p, ok
}

// Put stores p under its own key, replacing any previous entry.
func (c *Cache) Put(p Pipeline) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[p.Key()] = p
}

// Evict removes every pipeline built from an older version of the named shader.
//
// Parameters:
//   - shaderKey: the shader key
//   - current: the shader's current version; entries with other versions are removed
//
// Returns:
//   - []Pipeline: the removed pipelines
func (c *Cache) Evict(shaderKey string, current uint64) []Pipeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	var removed []Pipeline
	for k, p := range c.entries {
		if k.Shader == shaderKey && k.Version != current {
			removed = append(removed, p)
			delete(c.entries, k)
		}
	}
	return removed
}

// Len returns the number of cached pipelines.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Drain removes and returns every cached pipeline.
func (c *Cache) Drain() []Pipeline {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Pipeline, 0, len(c.entries))
	for k, p := range c.entries {
		out = append(out, p)
		delete(c.entries, k)
	}
	return out
}
