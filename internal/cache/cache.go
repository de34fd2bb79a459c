// Package cache memoizes link quotes. Breakdowns are deterministic for
// identical inputs, so serving a cached quote is indistinguishable from
// recomputing one; the cache is purely an optimization and every miss or
// backend failure falls through to a live scrape.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"

	"github.com/selekti/landedcost/internal/models"
)

// Cache stores finished link quotes keyed by normalized URL+zone.
type Cache interface {
	Get(ctx context.Context, key string) (*models.LinkQuote, bool)
	Set(ctx context.Context, key string, quote *models.LinkQuote)
}

// Key builds the cache key for a quote request.
func Key(url, zone string) string {
	return "quote:" + zone + ":" + url
}

// LRU is the default in-process backend.
type LRU struct {
	entries *expirable.LRU[string, models.LinkQuote]
}

// NewLRU builds an in-process cache holding up to size quotes for ttl.
func NewLRU(size int, ttl time.Duration) *LRU {
	if size <= 0 {
		size = 512
	}
	return &LRU{entries: expirable.NewLRU[string, models.LinkQuote](size, nil, ttl)}
}

func (c *LRU) Get(_ context.Context, key string) (*models.LinkQuote, bool) {
	quote, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return &quote, true
}

func (c *LRU) Set(_ context.Context, key string, quote *models.LinkQuote) {
	if quote == nil {
		return
	}
	c.entries.Add(key, *quote)
}

// Redis shares cached quotes across instances when REDIS_ADDR is set.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis wraps an existing redis client.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Redis{client: client, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key string) (*models.LinkQuote, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var quote models.LinkQuote
	if err := json.Unmarshal(raw, &quote); err != nil {
		return nil, false
	}
	return &quote, true
}

func (c *Redis) Set(ctx context.Context, key string, quote *models.LinkQuote) {
	if quote == nil {
		return
	}
	raw, err := json.Marshal(quote)
	if err != nil {
		return
	}
	// Best effort: a failed SET just means the next request scrapes again.
	c.client.Set(ctx, key, raw, c.ttl)
}

// Noop disables caching.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.LinkQuote, bool) { return nil, false }
func (Noop) Set(context.Context, string, *models.LinkQuote)        {}
