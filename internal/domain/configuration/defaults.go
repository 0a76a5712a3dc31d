package configuration

import (
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// Well-known setting keys
const (
	KeyCurrency                = "pricing.currency"
	KeyMovingBaseRate          = "pricing.moving.base_rate"
	KeyMovingPerKmRate         = "pricing.moving.per_km_rate"
	KeyMovingPerBedroomRate    = "pricing.moving.per_bedroom_rate"
	KeyMovingMinimumPrice      = "pricing.moving.minimum_price"
	KeyCleaningBaseRate        = "pricing.cleaning.base_rate"
	KeyCleaningPerBedroomRate  = "pricing.cleaning.per_bedroom_rate"
	KeyCleaningPerBathroomRate = "pricing.cleaning.per_bathroom_rate"
	KeyCleaningMinimumPrice    = "pricing.cleaning.minimum_price"
	KeyQuoteValidityDays       = "quote.validity_days"
	KeyBookingDepositPercent   = "booking.deposit_percent"
)

// Default describes a well-known setting and its fallback value
type Default struct {
	Key         string
	Value       string
	ValueType   ValueType
	Description string
}

// Defaults lists every well-known setting
var Defaults = []Default{
	{KeyCurrency, "USD", ValueTypeString, "ISO 4217 currency for all prices"},
	{KeyMovingBaseRate, "150", ValueTypeNumber, "Flat base rate for a move"},
	{KeyMovingPerKmRate, "2.5", ValueTypeNumber, "Rate per kilometre between origin and destination"},
	{KeyMovingPerBedroomRate, "60", ValueTypeNumber, "Rate per bedroom moved"},
	{KeyMovingMinimumPrice, "200", ValueTypeNumber, "Lowest price a move can be quoted at"},
	{KeyCleaningBaseRate, "80", ValueTypeNumber, "Flat base rate for a clean"},
	{KeyCleaningPerBedroomRate, "25", ValueTypeNumber, "Rate per bedroom cleaned"},
	{KeyCleaningPerBathroomRate, "20", ValueTypeNumber, "Rate per bathroom cleaned"},
	{KeyCleaningMinimumPrice, "100", ValueTypeNumber, "Lowest price a clean can be quoted at"},
	{KeyQuoteValidityDays, "14", ValueTypeNumber, "Days a quote stays open before it expires"},
	{KeyBookingDepositPercent, "20", ValueTypeNumber, "Deposit percentage of the booking total"},
}

// QuotePolicy holds the quote and booking policies read from settings
type QuotePolicy struct {
	ValidityDays   int
	DepositPercent decimal.Decimal
}

// Snapshot is a read-only view of settings with fallback to Defaults
type Snapshot struct {
	values map[string]*Setting
}

// NewSnapshot builds a snapshot from stored settings
func NewSnapshot(settings []Setting) Snapshot {
	values := make(map[string]*Setting, len(Defaults)+len(settings))
	for _, d := range Defaults {
		values[d.Key] = &Setting{Key: d.Key, Value: d.Value, ValueType: d.ValueType, Description: d.Description}
	}
	for i := range settings {
		values[settings[i].Key] = &settings[i]
	}
	return Snapshot{values: values}
}

// Get returns a setting by key
func (s Snapshot) Get(key string) (*Setting, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s Snapshot) decimal(key string) (decimal.Decimal, error) {
	v, ok := s.values[key]
	if !ok {
		return decimal.Zero, nil
	}
	return v.Decimal()
}

// RateCard assembles the pricing rate card
func (s Snapshot) RateCard() (pricing.RateCard, error) {
	card := pricing.RateCard{Currency: "USD"}
	if v, ok := s.values[KeyCurrency]; ok && v.Value != "" {
		card.Currency = v.Value
	}

	fields := []struct {
		key    string
		target *decimal.Decimal
	}{
		{KeyMovingBaseRate, &card.Moving.BaseRate},
		{KeyMovingPerKmRate, &card.Moving.PerKmRate},
		{KeyMovingPerBedroomRate, &card.Moving.PerBedroomRate},
		{KeyMovingMinimumPrice, &card.Moving.MinimumPrice},
		{KeyCleaningBaseRate, &card.Cleaning.BaseRate},
		{KeyCleaningPerBedroomRate, &card.Cleaning.PerBedroomRate},
		{KeyCleaningPerBathroomRate, &card.Cleaning.PerBathroomRate},
		{KeyCleaningMinimumPrice, &card.Cleaning.MinimumPrice},
	}
	for _, f := range fields {
		d, err := s.decimal(f.key)
		if err != nil {
			return pricing.RateCard{}, err
		}
		*f.target = d
	}
	return card, nil
}

// QuotePolicy assembles the quote and booking policies
func (s Snapshot) QuotePolicy() (QuotePolicy, error) {
	policy := QuotePolicy{ValidityDays: 14, DepositPercent: decimal.NewFromInt(20)}

	if v, ok := s.values[KeyQuoteValidityDays]; ok {
		days, err := v.Int()
		if err != nil {
			return QuotePolicy{}, err
		}
		if days > 0 {
			policy.ValidityDays = days
		}
	}
	if v, ok := s.values[KeyBookingDepositPercent]; ok {
		pct, err := v.Decimal()
		if err != nil {
			return QuotePolicy{}, err
		}
		policy.DepositPercent = decimal.Min(decimal.Max(pct, decimal.Zero), decimal.NewFromInt(100))
	}
	return policy, nil
}
