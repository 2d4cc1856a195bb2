package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	UnknownMemberName  = "Unknown"
	UnknownMemberColor = "#9CA3AF"

	DefaultTopRecipients = 5
	FallbackCurrency     = "USD"
)

// Rates maps a currency code to the factor that converts one unit of it
// into the base currency.
type Rates map[string]decimal.Decimal

type MemberTotal struct {
	MemberID string          `json:"memberId"`
	Name     string          `json:"name"`
	Color    string          `json:"color"`
	Count    int             `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type RecipientCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Normalized is a total converted into one currency. Available is false when
// no rates could be loaded; Total is zero then and must not be shown as real.
type Normalized struct {
	Available bool            `json:"available"`
	Currency  string          `json:"currency"`
	Total     decimal.Decimal `json:"total"`
}

type Average struct {
	Available bool            `json:"available"`
	Amount    decimal.Decimal `json:"amount"`
}

type Report struct {
	OwnerID            string           `json:"ownerId"`
	GiftCount          int              `json:"giftCount"`
	ByMember           []MemberTotal    `json:"byFamilyMember"`
	ByMonth            []MonthCount     `json:"byMonth"`
	TopRecipients      []RecipientCount `json:"topRecipients"`
	MultipleRecipients []RecipientCount `json:"multipleRecipients"`
	Total              Normalized       `json:"total"`
	Average            Average          `json:"average"`
	GeneratedAt        time.Time        `json:"generatedAt"`
}
