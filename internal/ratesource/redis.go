package ratesource

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// NewRedisClient returns go-redis client for the rate cache.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisCache shares rates between ledger instances through Redis.
//
// Redis failures are logged and treated as cache misses.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache returns RedisCache storing rates for ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached rate.
func (c *RedisCache) Get(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	l := zerolog.Ctx(ctx)

	val, err := c.client.Get(ctx, cacheKey(from, to)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false
	}

	if err != nil {
		l.Warn().Err(err).Msg("cannot read rate cache")
		return decimal.Zero, false
	}

	rate, err := decimal.NewFromString(val)
	if err != nil {
		l.Warn().Err(err).Str("value", val).Msg("malformed cached rate")
		return decimal.Zero, false
	}

	return rate, true
}

// Set caches the rate for ttl.
func (c *RedisCache) Set(ctx context.Context, from, to string, rate decimal.Decimal) {
	if c.ttl <= 0 {
		return
	}

	if err := c.client.Set(ctx, cacheKey(from, to), rate.String(), c.ttl).Err(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("cannot write rate cache")
	}
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
