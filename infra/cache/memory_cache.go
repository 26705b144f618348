package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type cacheEntry struct {
	rate      decimal.Decimal
	expiresAt time.Time
}

// MemoryCache implements cache.RateCache using in-memory storage. Expired
// entries are dropped on read and by a background sweep until Close.
type MemoryCache struct {
	mu    sync.RWMutex
	cache map[string]cacheEntry
	now   func() time.Time
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// NewMemoryCache creates an in-memory cache sweeping expired entries every
// cleanupInterval. A non-positive interval disables the sweep.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	c := &MemoryCache{
		cache: make(map[string]cacheEntry),
		now:   time.Now,
		done:  make(chan struct{}),
	}
	if cleanupInterval > 0 {
		c.wg.Add(1)
		go c.cleanup(cleanupInterval)
	}
	return c
}

// Get retrieves a rate from cache
func (c *MemoryCache) Get(_ context.Context, key string) (decimal.Decimal, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.cache[key]
	if !exists || !c.now().Before(entry.expiresAt) {
		return decimal.Decimal{}, false, nil
	}
	return entry.rate, true, nil
}

// Set stores a rate in cache with TTL
func (c *MemoryCache) Set(_ context.Context, key string, rate decimal.Decimal, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = cacheEntry{rate: rate, expiresAt: c.now().Add(ttl)}
	return nil
}

// Delete removes a rate from cache
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.cache, key)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Close stops the background sweep.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.done) })
	c.wg.Wait()
	return nil
}

func (c *MemoryCache) cleanup(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *MemoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.cache {
		if !now.Before(entry.expiresAt) {
			delete(c.cache, key)
		}
	}
}
