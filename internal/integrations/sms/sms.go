package sms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"wedledger/internal/domain/account"
	"wedledger/pkg/logger"
)

const (
	ProviderLog  = "log"
	ProviderHTTP = "http"

	defaultTimeout = 10 * time.Second
)

type Config struct {
	BaseURL string
	APIKey  string
	Sender  string
	Timeout time.Duration
}

type sendRequest struct {
	From string `json:"from,omitempty"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type sendResponse struct {
	Success    bool   `json:"success"`
	Recipients int    `json:"recipients"`
	Error      string `json:"error"`
}

// HTTPSender posts messages to a JSON SMS gateway.
type HTTPSender struct {
	client *resty.Client
	from   string
	log    logger.Logger
}

func NewHTTPSender(cfg Config, log logger.Logger) (*HTTPSender, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("sms base url is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &HTTPSender{client: client, from: cfg.Sender, log: log}, nil
}

// Send makes one attempt; a rejected message is reported as an unsuccessful
// delivery, transport failures as errors.
func (s *HTTPSender) Send(ctx context.Context, phone, body string) (account.Delivery, error) {
	var result sendResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(sendRequest{From: s.from, To: phone, Text: body}).
		SetResult(&result).
		SetError(&result).
		Post("/messages")
	if err != nil {
		return account.Delivery{}, fmt.Errorf("sms send: %w", err)
	}

	if resp.IsError() {
		s.log.Warn("sms.send: gateway rejected message", "status", resp.StatusCode(), "error", result.Error)
		return account.Delivery{}, fmt.Errorf("sms send: gateway status %d", resp.StatusCode())
	}
	if !result.Success {
		s.log.Warn("sms.send: delivery failed", "error", result.Error)
		return account.Delivery{Success: false}, nil
	}

	return account.Delivery{Success: true, Recipients: result.Recipients}, nil
}

// LogSender writes messages to the log instead of delivering them. The
// recipient is masked and the body, which may carry a code, is only logged
// at debug.
type LogSender struct {
	log logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, phone, body string) (account.Delivery, error) {
	masked := logger.MaskPhone(phone)
	s.log.Info("sms.send: message logged", "phone", masked, "length", len(body))
	s.log.Debug("sms.send: message body", "phone", masked, "body", body)
	return account.Delivery{Success: true, Recipients: 1}, nil
}

// New picks the sender named by provider.
func New(provider string, cfg Config, log logger.Logger) (account.Sender, error) {
	switch provider {
	case ProviderHTTP:
		sender, err := NewHTTPSender(cfg, log)
		if err != nil {
			return nil, err
		}
		return sender, nil
	case ProviderLog, "":
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unknown sms provider %q", provider)
	}
}
