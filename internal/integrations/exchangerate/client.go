package exchangerate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"wedledger/internal/domain/analytics"
)

const (
	defaultTimeout = 5 * time.Second
	divisionPlaces = 10
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// latestResponse is the body of GET /latest?base=XXX: how many units of each
// currency one unit of base buys.
type latestResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type Client struct {
	client *resty.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("rates base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{client: client}, nil
}

// FetchRates returns factors converting each currency into base. The API
// quotes base in other currencies, so every quote is inverted.
func (c *Client) FetchRates(ctx context.Context, base string) (analytics.Rates, error) {
	var body latestResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("base", base).
		SetResult(&body).
		Get("/latest")
	if err != nil {
		return nil, fmt.Errorf("fetch rates: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch rates: status %d", resp.StatusCode())
	}

	return invert(base, body.Rates), nil
}

func invert(base string, quotes map[string]decimal.Decimal) analytics.Rates {
	rates := make(analytics.Rates, len(quotes)+1)
	one := decimal.NewFromInt(1)
	for currency, quote := range quotes {
		if !quote.IsPositive() {
			continue
		}
		rates[strings.ToUpper(currency)] = one.DivRound(quote, divisionPlaces)
	}
	if len(rates) == 0 {
		return rates
	}
	rates[strings.ToUpper(base)] = one
	return rates
}
