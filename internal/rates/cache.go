package rates

import (
	"sync"
	"time"

	"github.com/nairex/nairex-api/internal/domain"
)

type cacheEntry struct {
	quote     domain.RateQuote
	expiresAt time.Time
}

// Cache is a TTL-bounded quote store shared by concurrent requests. Reads of
// a warm entry never block each other; expired entries read as misses.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *Cache) Get(key string) (domain.RateQuote, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().After(e.expiresAt) {
		return domain.RateQuote{}, false
	}
	return e.quote, true
}

func (c *Cache) Put(key string, quote domain.RateQuote, ttl time.Duration) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{quote: quote, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
}
