package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"wedledger/internal/domain/analytics"
	"wedledger/pkg/logger"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RatesCache) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRatesCache(client, logger.Nop())
}

func TestRatesCacheRoundTrip(t *testing.T) {
	mr, cache := setupTestRedis(t)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "USD")
	require.False(t, ok)

	cache.Set(ctx, "USD", analytics.Rates{"KRW": decimal.RequireFromString("0.00075")}, time.Hour)
	require.True(t, mr.Exists("wedledger:rates:USD"))
	require.Equal(t, time.Hour, mr.TTL("wedledger:rates:USD"))

	rates, ok := cache.Get(ctx, "USD")
	require.True(t, ok)
	require.True(t, rates["KRW"].Equal(decimal.RequireFromString("0.00075")))

	mr.FastForward(time.Hour)
	_, ok = cache.Get(ctx, "USD")
	require.False(t, ok)
}

func TestRatesCacheIgnoresCorruptEntries(t *testing.T) {
	mr, cache := setupTestRedis(t)
	require.NoError(t, mr.Set("wedledger:rates:EUR", "not json"))

	_, ok := cache.Get(context.Background(), "EUR")
	require.False(t, ok)
}

func TestRatesCacheMissWhenRedisDown(t *testing.T) {
	mr, cache := setupTestRedis(t)
	mr.Close()

	cache.Set(context.Background(), "USD", analytics.Rates{"EUR": decimal.NewFromInt(1)}, time.Hour)
	_, ok := cache.Get(context.Background(), "USD")
	require.False(t, ok)
}

func TestNewClientPings(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewClient(context.Background(), Config{Addr: addr})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewClient(context.Background(), Config{Addr: addr})
	require.Error(t, err)
}
