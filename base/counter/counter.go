package counter

import "sync"

// Counter keeps running totals per key
type Counter struct {
	counts map[string]int
	total  int
	mu     sync.RWMutex
}

func NewCounter() *Counter {
	return &Counter{counts: map[string]int{}}
}

func (c *Counter) Add(key string, val int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[key] += val
	c.total += val
}

func (c *Counter) Count(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[key]
}

func (c *Counter) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total
}

// Snapshot copies the current per-key totals
func (c *Counter) Snapshot() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		res[k] = v
	}
	return res
}
