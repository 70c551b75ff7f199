package ratesource

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/shopspring/decimal"
)

// MemoryCache keeps rates in process memory for ttl.
type MemoryCache struct {
	ttl   time.Duration
	rates *ttlcache.Cache[string, decimal.Decimal]
}

// NewMemoryCache returns MemoryCache. A non-positive ttl disables caching.
//
// A hit does not extend the entry lifetime: a rate is served at most ttl after it was fetched.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl: ttl,
		rates: ttlcache.New[string, decimal.Decimal](
			ttlcache.WithTTL[string, decimal.Decimal](ttl),
			ttlcache.WithDisableTouchOnHit[string, decimal.Decimal](),
		),
	}
}

func cacheKey(from, to string) string {
	return "rate:" + from + ":" + to
}

// Get returns the rate if it has not expired yet.
func (c *MemoryCache) Get(_ context.Context, from, to string) (decimal.Decimal, bool) {
	item := c.rates.Get(cacheKey(from, to))
	if item == nil || item.IsExpired() {
		return decimal.Zero, false
	}

	return item.Value(), true
}

// Set stores the rate for ttl.
func (c *MemoryCache) Set(_ context.Context, from, to string, rate decimal.Decimal) {
	if c.ttl <= 0 {
		return
	}

	c.rates.Set(cacheKey(from, to), rate, ttlcache.DefaultTTL)
}
