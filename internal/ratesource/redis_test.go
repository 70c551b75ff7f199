package ratesource

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client := NewRedisClient(mr.Addr(), "", 0)
	defer client.Close()

	cache := NewRedisCache(client, 5*time.Second)
	require.NoError(t, cache.Ping(ctx))

	_, ok := cache.Get(ctx, currencypkg.GBP, currencypkg.TRY)
	require.False(t, ok)

	rate := decimal.RequireFromString("41.255")
	cache.Set(ctx, currencypkg.GBP, currencypkg.TRY, rate)

	got, ok := cache.Get(ctx, currencypkg.GBP, currencypkg.TRY)
	require.True(t, ok)
	require.True(t, got.Equal(rate))
	require.Equal(t, 5*time.Second, mr.TTL(cacheKey(currencypkg.GBP, currencypkg.TRY)))

	mr.FastForward(5 * time.Second)

	_, ok = cache.Get(ctx, currencypkg.GBP, currencypkg.TRY)
	require.False(t, ok)
}

func TestRedisCacheMalformedValue(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	require.NoError(t, mr.Set(cacheKey(currencypkg.USD, currencypkg.EUR), "not-a-rate"))

	client := NewRedisClient(mr.Addr(), "", 0)
	defer client.Close()

	_, ok := NewRedisCache(client, time.Second).Get(ctx, currencypkg.USD, currencypkg.EUR)
	require.False(t, ok)
}

func TestRedisCacheUnreachable(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client := NewRedisClient(mr.Addr(), "", 0)
	defer client.Close()

	cache := NewRedisCache(client, time.Second)
	mr.Close()

	cache.Set(ctx, currencypkg.USD, currencypkg.EUR, decimal.RequireFromString("0.93"))

	_, ok := cache.Get(ctx, currencypkg.USD, currencypkg.EUR)
	require.False(t, ok)
}
