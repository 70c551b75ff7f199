package ratesource

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/pkg/currencypkg"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()

	cache := NewMemoryCache(time.Minute)

	_, ok := cache.Get(ctx, currencypkg.USD, currencypkg.EUR)
	require.False(t, ok)

	rate := decimal.RequireFromString("0.93")
	cache.Set(ctx, currencypkg.USD, currencypkg.EUR, rate)

	got, ok := cache.Get(ctx, currencypkg.USD, currencypkg.EUR)
	require.True(t, ok)
	require.True(t, got.Equal(rate))

	_, ok = cache.Get(ctx, currencypkg.EUR, currencypkg.USD)
	require.False(t, ok)
}

func TestMemoryCacheExpiresAfterFetch(t *testing.T) {
	ctx := context.Background()
	ttl := 200 * time.Millisecond

	cache := NewMemoryCache(ttl)
	cache.Set(ctx, currencypkg.USD, currencypkg.EUR, decimal.RequireFromString("0.93"))
	stored := time.Now()

	time.Sleep(ttl * 3 / 5)

	_, ok := cache.Get(ctx, currencypkg.USD, currencypkg.EUR)
	require.True(t, ok)

	// A hit must not push the expiry past ttl from the fetch.
	time.Sleep(time.Until(stored.Add(ttl + 50*time.Millisecond)))

	_, ok = cache.Get(ctx, currencypkg.USD, currencypkg.EUR)
	require.False(t, ok)
}

func TestMemoryCacheDisabled(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryCache(0)

	cache.Set(ctx, currencypkg.USD, currencypkg.EUR, decimal.RequireFromString("0.93"))

	_, ok := cache.Get(ctx, currencypkg.USD, currencypkg.EUR)
	require.False(t, ok)
}
