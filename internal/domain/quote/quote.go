package quote

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a quote
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusExpired:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s Status) IsTerminal() bool {
	return s != StatusPending
}

// Contact is the requester's contact snapshot at quote time
type Contact struct {
	Name  string
	Email string
	Phone string
}

// ServiceRequest is what the customer asked to be priced
type ServiceRequest struct {
	Context pricing.Context
	// Address is the pickup address for a move or the site for a clean
	Address string
	// DestinationAddress is only used for moves
	DestinationAddress string
	Notes              string
}

// Validate checks the request has the addresses its service type needs
func (r ServiceRequest) Validate() error {
	if err := r.Context.Normalize().Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Address) == "" {
		return shared.NewDomainError("ADDRESS_REQUIRED", "Service address is required")
	}
	if r.Context.ServiceType == pricing.ServiceTypeMoving && strings.TrimSpace(r.DestinationAddress) == "" {
		return shared.NewDomainError("DESTINATION_REQUIRED", "Destination address is required for moving")
	}
	return nil
}

// Quote is a computed price estimate for a service request
type Quote struct {
	shared.BaseAggregateRoot
	QuoteNumber     string
	CustomerID      uuid.UUID
	Contact         Contact
	Request         ServiceRequest
	Pricing         pricing.Result
	Status          Status
	ExpiresAt       time.Time
	AcceptedAt      *time.Time
	RejectedAt      *time.Time
	RejectionReason string
}

// NewQuote creates a pending quote valid until expiresAt
func NewQuote(quoteNumber string, customerID uuid.UUID, contact Contact, request ServiceRequest, result pricing.Result, expiresAt time.Time) (*Quote, error) {
	if quoteNumber == "" {
		return nil, shared.NewDomainError("INVALID_QUOTE_NUMBER", "Quote number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}
	if result.FinalPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Quoted price cannot be negative")
	}

	q := &Quote{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		QuoteNumber:       quoteNumber,
		CustomerID:        customerID,
		Contact:           contact,
		Request:           request,
		Pricing:           result,
		Status:            StatusPending,
		ExpiresAt:         expiresAt,
	}
	q.Request.Context = request.Context.Normalize()

	if !expiresAt.After(q.CreatedAt) {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Quote expiry must be in the future")
	}

	q.AddDomainEvent(NewQuoteRequestedEvent(q))

	return q, nil
}

// ServiceType returns the quoted service type
func (q *Quote) ServiceType() pricing.ServiceType {
	return q.Request.Context.ServiceType
}

// FinalPrice returns the quoted total
func (q *Quote) FinalPrice() decimal.Decimal {
	return q.Pricing.FinalPrice
}

// IsExpiredAt reports whether the quote's validity has lapsed
func (q *Quote) IsExpiredAt(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}

// CanTransition reports whether the quote may still be acted upon at now
func (q *Quote) CanTransition(now time.Time) error {
	if q.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Quote is %s", q.Status))
	}
	if q.IsExpiredAt(now) {
		return shared.NewDomainError("QUOTE_EXPIRED", "Quote has expired")
	}
	return nil
}

// Recalculate replaces the pricing result of a pending quote
func (q *Quote) Recalculate(result pricing.Result, now time.Time) error {
	if err := q.CanTransition(now); err != nil {
		return err
	}
	if result.FinalPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Quoted price cannot be negative")
	}

	previous := q.Pricing.FinalPrice
	q.Pricing = result
	q.UpdatedAt = now
	q.IncrementVersion()

	q.AddDomainEvent(NewQuoteRecalculatedEvent(q, previous))

	return nil
}

// Accept accepts a pending, unexpired quote
func (q *Quote) Accept(now time.Time) error {
	if err := q.CanTransition(now); err != nil {
		return err
	}

	q.Status = StatusAccepted
	q.AcceptedAt = &now
	q.UpdatedAt = now
	q.IncrementVersion()

	q.AddDomainEvent(NewQuoteStatusEvent(q, EventTypeQuoteAccepted))

	return nil
}

// Reject rejects a pending, unexpired quote
func (q *Quote) Reject(reason string, now time.Time) error {
	if err := q.CanTransition(now); err != nil {
		return err
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}

	q.Status = StatusRejected
	q.RejectedAt = &now
	q.RejectionReason = strings.TrimSpace(reason)
	q.UpdatedAt = now
	q.IncrementVersion()

	q.AddDomainEvent(NewQuoteStatusEvent(q, EventTypeQuoteRejected))

	return nil
}

// Expire marks a pending quote whose validity has lapsed as expired
func (q *Quote) Expire(now time.Time) error {
	if q.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Quote is %s", q.Status))
	}
	if !q.IsExpiredAt(now) {
		return shared.NewDomainError("INVALID_STATE", "Quote has not reached its expiry")
	}

	q.Status = StatusExpired
	q.UpdatedAt = now
	q.IncrementVersion()

	q.AddDomainEvent(NewQuoteStatusEvent(q, EventTypeQuoteExpired))

	return nil
}

// GenerateQuoteNumber returns a number of the form Q-YYYYMMDD-XXXXXX
func GenerateQuoteNumber(now time.Time) string {
	return shared.GenerateNumber("Q", now)
}
