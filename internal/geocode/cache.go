package geocode

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geocode:"

// Cache stores geocoding result sets keyed by normalized query. Both
// implementations are bounded: Redis entries carry a TTL, the in-memory
// variant additionally enforces a capacity so the table cannot grow without
// limit under sustained traffic.
type Cache interface {
	Get(ctx context.Context, key string) ([]AddressCandidate, bool)
	Set(ctx context.Context, key string, results []AddressCandidate)
}

// RedisCache stores result sets in Redis as JSON with a TTL. Used when
// REDIS_URL is configured so instances share lookups.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]AddressCandidate, bool) {
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}

	var results []AddressCandidate
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false
	}
	return results, true
}

func (c *RedisCache) Set(ctx context.Context, key string, results []AddressCandidate) {
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	// Best effort: a failed write only costs one extra upstream call.
	_ = c.client.Set(ctx, redisKeyPrefix+key, data, c.ttl).Err()
}

type memoryEntry struct {
	results   []AddressCandidate
	expiresAt time.Time
}

// MemoryCache is the in-process fallback when Redis is not configured.
// Entries expire after the TTL; when the capacity is reached the oldest
// entry is evicted.
type MemoryCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	entries  map[string]memoryEntry
	order    []string
	now      func() time.Time
}

// NewMemoryCache creates a bounded in-memory cache.
func NewMemoryCache(capacity int, ttl time.Duration) *MemoryCache {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryCache{
		ttl:      ttl,
		capacity: capacity,
		entries:  make(map[string]memoryEntry, capacity),
		order:    make([]string, 0, capacity),
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]AddressCandidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.remove(key)
		return nil, false
	}
	return entry.results, true
}

func (c *MemoryCache) Set(_ context.Context, key string, results []AddressCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.remove(key)
	}
	for len(c.entries) >= c.capacity && len(c.order) > 0 {
		c.remove(c.order[0])
	}

	c.entries[key] = memoryEntry{results: results, expiresAt: c.now().Add(c.ttl)}
	c.order = append(c.order, key)
}

// Len reports the number of live entries. Used by tests and the health log.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// remove must be called with the lock held.
func (c *MemoryCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
