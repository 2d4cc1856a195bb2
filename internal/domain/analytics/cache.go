package analytics

import (
	"context"
	"time"
)

// RateCache keeps fetched rate tables per base currency.
type RateCache interface {
	Get(ctx context.Context, base string) (Rates, bool)
	Set(ctx context.Context, base string, rates Rates, ttl time.Duration)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) (Rates, bool) {
	return nil, false
}

func (noopCache) Set(context.Context, string, Rates, time.Duration) {}
