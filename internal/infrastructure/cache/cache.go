package cache

import (
	"sync"
	"time"
)

type item struct {
	value      interface{}
	expiration int64
}

// Cache é o cache em memória com TTL usado pelas consultas de stats.
// Uma instância por processo, injetada explicitamente, sem singleton.
type Cache struct {
	items map[string]item
	mu    sync.RWMutex
}

func New() *Cache {
	c := &Cache{
		items: make(map[string]item),
	}

	// Janitor para os itens expirados
	go func() {
		for {
			time.Sleep(time.Minute)
			c.deleteExpired()
		}
	}()

	return c
}

func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = item{
		value:      value,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || time.Now().UnixNano() > it.expiration {
		return nil, false
	}
	return it.value, true
}

func (c *Cache) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for k, v := range c.items {
		if now > v.expiration {
			delete(c.items, k)
		}
	}
}
