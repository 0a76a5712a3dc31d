package quote

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeQuote = "Quote"

// Event type constants
const (
	EventTypeQuoteRequested    = "QuoteRequested"
	EventTypeQuoteRecalculated = "QuoteRecalculated"
	EventTypeQuoteAccepted     = "QuoteAccepted"
	EventTypeQuoteRejected     = "QuoteRejected"
	EventTypeQuoteExpired      = "QuoteExpired"
)

// QuoteRequestedEvent is published when a customer submits a quote request
type QuoteRequestedEvent struct {
	shared.BaseDomainEvent
	QuoteID     uuid.UUID           `json:"quote_id"`
	QuoteNumber string              `json:"quote_number"`
	CustomerID  uuid.UUID           `json:"customer_id"`
	ServiceType pricing.ServiceType `json:"service_type"`
	FinalPrice  decimal.Decimal     `json:"final_price"`
	Currency    string              `json:"currency"`
	ExpiresAt   time.Time           `json:"expires_at"`
}

// NewQuoteRequestedEvent creates a new QuoteRequestedEvent
func NewQuoteRequestedEvent(q *Quote) *QuoteRequestedEvent {
	return &QuoteRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteRequested, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		QuoteNumber:     q.QuoteNumber,
		CustomerID:      q.CustomerID,
		ServiceType:     q.ServiceType(),
		FinalPrice:      q.Pricing.FinalPrice,
		Currency:        q.Pricing.Currency,
		ExpiresAt:       q.ExpiresAt,
	}
}

// QuoteRecalculatedEvent is published when an admin reprices a pending quote
type QuoteRecalculatedEvent struct {
	shared.BaseDomainEvent
	QuoteID       uuid.UUID       `json:"quote_id"`
	QuoteNumber   string          `json:"quote_number"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	PreviousPrice decimal.Decimal `json:"previous_price"`
	FinalPrice    decimal.Decimal `json:"final_price"`
	Currency      string          `json:"currency"`
}

// NewQuoteRecalculatedEvent creates a new QuoteRecalculatedEvent
func NewQuoteRecalculatedEvent(q *Quote, previous decimal.Decimal) *QuoteRecalculatedEvent {
	return &QuoteRecalculatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuoteRecalculated, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		QuoteNumber:     q.QuoteNumber,
		CustomerID:      q.CustomerID,
		PreviousPrice:   previous,
		FinalPrice:      q.Pricing.FinalPrice,
		Currency:        q.Pricing.Currency,
	}
}

// QuoteStatusEvent is published when a quote is accepted, rejected or expires
type QuoteStatusEvent struct {
	shared.BaseDomainEvent
	QuoteID     uuid.UUID       `json:"quote_id"`
	QuoteNumber string          `json:"quote_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Status      Status          `json:"status"`
	FinalPrice  decimal.Decimal `json:"final_price"`
	Currency    string          `json:"currency"`
	Reason      string          `json:"reason,omitempty"`
}

// NewQuoteStatusEvent creates a new QuoteStatusEvent of the given type
func NewQuoteStatusEvent(q *Quote, eventType string) *QuoteStatusEvent {
	return &QuoteStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeQuote, q.ID),
		QuoteID:         q.ID,
		QuoteNumber:     q.QuoteNumber,
		CustomerID:      q.CustomerID,
		Status:          q.Status,
		FinalPrice:      q.Pricing.FinalPrice,
		Currency:        q.Pricing.Currency,
		Reason:          q.RejectionReason,
	}
}
