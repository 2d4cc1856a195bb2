package inmemory

import (
	"context"
	"maps"
	"sync"
	"time"

	"wedledger/internal/domain/analytics"
)

type InMemoryRatesCache struct {
	mu    sync.RWMutex
	items map[string]ratesItem
	now   func() time.Time
}

type ratesItem struct {
	value     analytics.Rates
	expiresAt time.Time
}

func NewInMemoryRatesCache() *InMemoryRatesCache {
	return &InMemoryRatesCache{
		items: make(map[string]ratesItem),
		now:   time.Now,
	}
}

func (c *InMemoryRatesCache) Get(_ context.Context, base string) (analytics.Rates, bool) {
	now := c.now()

	c.mu.RLock()
	item, ok := c.items[base]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !item.expiresAt.After(now) {
		c.mu.Lock()
		item, ok = c.items[base]
		if ok && !item.expiresAt.After(now) {
			delete(c.items, base)
		}
		c.mu.Unlock()
		return nil, false
	}

	return maps.Clone(item.value), true
}

func (c *InMemoryRatesCache) Set(_ context.Context, base string, rates analytics.Rates, ttl time.Duration) {
	if len(rates) == 0 || ttl <= 0 {
		c.Delete(base)
		return
	}

	c.mu.Lock()
	c.items[base] = ratesItem{
		value:     maps.Clone(rates),
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
}

func (c *InMemoryRatesCache) Delete(base string) {
	c.mu.Lock()
	delete(c.items, base)
	c.mu.Unlock()
}
