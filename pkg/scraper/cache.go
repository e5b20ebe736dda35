package scraper

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/breeew/stellar-api/pkg/types"
)

// Cache memoizes scrape results for the lifetime of the process. There is
// no eviction, source papers do not change. Concurrent misses of one key
// share a single computation and failures are not stored.
type Cache struct {
	mu    sync.RWMutex
	items map[string]types.ScrapeResult
	group singleflight.Group
}

func NewCache() *Cache {
	return &Cache{
		items: make(map[string]types.ScrapeResult),
	}
}

func (c *Cache) Get(key string) (types.ScrapeResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *Cache) Set(key string, v types.ScrapeResult) {
	c.mu.Lock()
	c.items[key] = v
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// GetOrCompute returns the cached value of key or stores the result of
// compute. The bool reports a cache hit.
func (c *Cache) GetOrCompute(key string, compute func() (types.ScrapeResult, error)) (types.ScrapeResult, bool, error) {
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		res, err := compute()
		if err != nil {
			return nil, err
		}
		c.Set(key, res)
		return res, nil
	})
	if err != nil {
		return types.ScrapeResult{}, false, err
	}
	return v.(types.ScrapeResult), false, nil
}
