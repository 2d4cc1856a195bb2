package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"wedledger/internal/domain/analytics"
	"wedledger/pkg/logger"
)

const ratesKeyPrefix = "wedledger:rates:"

type Config struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RatesCache stores rate tables as JSON with a redis TTL. Redis failures are
// logged and treated as misses.
type RatesCache struct {
	client *goredis.Client
	log    logger.Logger
}

func NewRatesCache(client *goredis.Client, log logger.Logger) *RatesCache {
	return &RatesCache{client: client, log: log}
}

func (c *RatesCache) Get(ctx context.Context, base string) (analytics.Rates, bool) {
	raw, err := c.client.Get(ctx, ratesKeyPrefix+base).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("redis.rates: get failed", "base", base, "err", err)
		}
		return nil, false
	}

	var rates analytics.Rates
	if err := json.Unmarshal(raw, &rates); err != nil {
		c.log.Warn("redis.rates: corrupt entry", "base", base, "err", err)
		return nil, false
	}
	if len(rates) == 0 {
		return nil, false
	}
	return rates, true
}

func (c *RatesCache) Set(ctx context.Context, base string, rates analytics.Rates, ttl time.Duration) {
	if len(rates) == 0 || ttl <= 0 {
		return
	}

	raw, err := json.Marshal(rates)
	if err != nil {
		c.log.Warn("redis.rates: encode failed", "base", base, "err", err)
		return
	}
	if err := c.client.Set(ctx, ratesKeyPrefix+base, raw, ttl).Err(); err != nil {
		c.log.Warn("redis.rates: set failed", "base", base, "err", err)
	}
}
