package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"wedledger/internal/domain/analytics"
)

func TestInMemoryRatesCacheExpires(t *testing.T) {
	cache := NewInMemoryRatesCache()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.Set(context.Background(), "USD", analytics.Rates{"EUR": decimal.RequireFromString("1.1")}, time.Minute)

	rates, ok := cache.Get(context.Background(), "USD")
	if !ok || !rates["EUR"].Equal(decimal.RequireFromString("1.1")) {
		t.Fatalf("expected cached rates, got %v %v", rates, ok)
	}

	rates["EUR"] = decimal.Zero
	again, _ := cache.Get(context.Background(), "USD")
	if again["EUR"].IsZero() {
		t.Fatalf("expected cache to hand out copies")
	}

	now = now.Add(time.Minute)
	if _, ok := cache.Get(context.Background(), "USD"); ok {
		t.Fatalf("expected entry expired")
	}
	if len(cache.items) != 0 {
		t.Fatalf("expected expired entry evicted")
	}
}

func TestInMemoryRatesCacheSkipsEmpty(t *testing.T) {
	cache := NewInMemoryRatesCache()
	cache.Set(context.Background(), "USD", analytics.Rates{}, time.Minute)

	if _, ok := cache.Get(context.Background(), "USD"); ok {
		t.Fatalf("expected empty table not cached")
	}
}
