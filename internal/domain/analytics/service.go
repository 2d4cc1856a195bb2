package analytics

import (
	"context"
	"regexp"
	"strings"
	"time"

	"wedledger/internal/domain/gifts"
	"wedledger/pkg/logger"
)

const defaultRatesCacheTTL = time.Hour

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// LedgerLoader returns the gifts and members a caller may read.
type LedgerLoader interface {
	Ledger(ctx context.Context, callerID, ownerID string) (*gifts.Ledger, error)
}

// RateSource fetches a table that converts each currency into base.
type RateSource interface {
	FetchRates(ctx context.Context, base string) (Rates, error)
}

type Config struct {
	BaseCurrency  string
	RatesCacheTTL time.Duration
}

type Service struct {
	ledgers LedgerLoader
	rates   RateSource
	cache   RateCache
	log     logger.Logger
	cfg     Config
	now     func() time.Time
}

func NewService(ledgers LedgerLoader, rates RateSource, cache RateCache, log logger.Logger, cfg Config) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if cfg.BaseCurrency == "" {
		cfg.BaseCurrency = FallbackCurrency
	}
	if cfg.RatesCacheTTL <= 0 {
		cfg.RatesCacheTTL = defaultRatesCacheTTL
	}

	return &Service{
		ledgers: ledgers,
		rates:   rates,
		cache:   cache,
		log:     log,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Report aggregates the owner's ledger. Rates are fetched once per report
// unless cached; a failed fetch marks money totals unavailable.
func (s *Service) Report(ctx context.Context, callerID, ownerID, base string) (Report, error) {
	ledger, err := s.ledgers.Ledger(ctx, callerID, ownerID)
	if err != nil {
		return Report{}, err
	}

	base = s.baseCurrency(base)
	total := Normalize(ledger.Gifts, s.loadRates(ctx, base), base)

	return Report{
		OwnerID:            ownerID,
		GiftCount:          len(ledger.Gifts),
		ByMember:           ByFamilyMember(ledger.Gifts, ledger.Members),
		ByMonth:            SortMonths(ByMonth(ledger.Gifts)),
		TopRecipients:      TopRecipients(ledger.Gifts, DefaultTopRecipients),
		MultipleRecipients: MultipleRecipients(ledger.Gifts),
		Total:              total,
		Average:            AverageOf(total, len(ledger.Gifts)),
		GeneratedAt:        s.now().UTC(),
	}, nil
}

func (s *Service) baseCurrency(base string) string {
	base = strings.ToUpper(strings.TrimSpace(base))
	if !currencyPattern.MatchString(base) {
		return s.cfg.BaseCurrency
	}
	return base
}

func (s *Service) loadRates(ctx context.Context, base string) Rates {
	if rates, ok := s.cache.Get(ctx, base); ok {
		return rates
	}
	if s.rates == nil {
		return nil
	}

	rates, err := s.rates.FetchRates(ctx, base)
	if err != nil {
		s.log.Warn("analytics.report: rates unavailable", "base", base, "err", err)
		return nil
	}
	if len(rates) > 0 {
		s.cache.Set(ctx, base, rates, s.cfg.RatesCacheTTL)
	}
	return rates
}
