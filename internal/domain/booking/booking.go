package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/quote"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a booking
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment state recorded by the back office
type PaymentStatus string

const (
	PaymentUnpaid      PaymentStatus = "unpaid"
	PaymentDepositPaid PaymentStatus = "deposit_paid"
	PaymentPaid        PaymentStatus = "paid"
	PaymentRefunded    PaymentStatus = "refunded"
)

// IsValid reports whether the payment status is known
func (p PaymentStatus) IsValid() bool {
	switch p {
	case PaymentUnpaid, PaymentDepositPaid, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:      {PaymentDepositPaid, PaymentPaid},
	PaymentDepositPaid: {PaymentPaid, PaymentRefunded},
	PaymentPaid:        {PaymentRefunded},
}

// Booking is a confirmed customer order derived from an accepted quote
type Booking struct {
	shared.BaseAggregateRoot
	BookingNumber      string
	QuoteID            uuid.UUID
	CustomerID         uuid.UUID
	ServiceType        pricing.ServiceType
	ScheduledAt        time.Time
	ServiceAddress     string
	DestinationAddress string
	TotalAmount        decimal.Decimal
	DepositAmount      decimal.Decimal
	Currency           string
	Status             Status
	PaymentStatus      PaymentStatus
	Notes              string
	CancellationReason string
	ConfirmedAt        *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
}

// NewFromQuote creates a pending booking from an accepted quote.
// depositPercent is clamped to [0, 100].
func NewFromQuote(q *quote.Quote, scheduledAt time.Time, depositPercent decimal.Decimal, now time.Time) (*Booking, error) {
	if q == nil {
		return nil, shared.NewDomainError("INVALID_QUOTE", "Quote is required")
	}
	if q.Status != quote.StatusAccepted {
		return nil, shared.NewDomainError("QUOTE_NOT_ACCEPTED", "Only accepted quotes can be booked")
	}
	if scheduledAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Scheduled date is required")
	}
	if !scheduledAt.After(now) {
		return nil, shared.NewDomainError("INVALID_SCHEDULE", "Scheduled date must be in the future")
	}

	depositPercent = decimal.Min(decimal.Max(depositPercent, decimal.Zero), decimal.NewFromInt(100))
	total := q.FinalPrice()

	b := &Booking{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		BookingNumber:      GenerateBookingNumber(now),
		QuoteID:            q.ID,
		CustomerID:         q.CustomerID,
		ServiceType:        q.ServiceType(),
		ScheduledAt:        scheduledAt,
		ServiceAddress:     q.Request.Address,
		DestinationAddress: q.Request.DestinationAddress,
		TotalAmount:        total,
		DepositAmount:      total.Mul(depositPercent).Div(decimal.NewFromInt(100)).Round(2),
		Currency:           q.Pricing.Currency,
		Status:             StatusPending,
		PaymentStatus:      PaymentUnpaid,
		Notes:              q.Request.Notes,
	}

	b.AddDomainEvent(NewBookingCreatedEvent(b))

	return b, nil
}

// Confirm moves a pending booking to confirmed
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return invalidTransition(b.Status, StatusConfirmed)
	}

	b.Status = StatusConfirmed
	b.ConfirmedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBookingStatusEvent(b, EventTypeBookingConfirmed))

	return nil
}

// Complete marks a confirmed booking as done
func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusConfirmed {
		return invalidTransition(b.Status, StatusCompleted)
	}

	b.Status = StatusCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBookingStatusEvent(b, EventTypeBookingCompleted))

	return nil
}

// Cancel cancels a pending or confirmed booking
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return invalidTransition(b.Status, StatusCancelled)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "Cancellation reason is required")
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}

	b.Status = StatusCancelled
	b.CancellationReason = reason
	b.CancelledAt = &now
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBookingStatusEvent(b, EventTypeBookingCancelled))

	return nil
}

// Reschedule moves the service date of a pending or confirmed booking
func (b *Booking) Reschedule(scheduledAt, now time.Time) error {
	if b.Status != StatusPending && b.Status != StatusConfirmed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reschedule a %s booking", b.Status))
	}
	if !scheduledAt.After(now) {
		return shared.NewDomainError("INVALID_SCHEDULE", "Scheduled date must be in the future")
	}

	previous := b.ScheduledAt
	b.ScheduledAt = scheduledAt
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBookingRescheduledEvent(b, previous))

	return nil
}

// UpdatePaymentStatus records a payment state change
func (b *Booking) UpdatePaymentStatus(status PaymentStatus, now time.Time) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_STATUS", "Unknown payment status")
	}
	allowed := false
	for _, next := range paymentTransitions[b.PaymentStatus] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return shared.NewDomainError("INVALID_PAYMENT_TRANSITION",
			fmt.Sprintf("Cannot change payment status from %s to %s", b.PaymentStatus, status))
	}
	if status != PaymentRefunded && b.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot take payment for a cancelled booking")
	}

	previous := b.PaymentStatus
	b.PaymentStatus = status
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBookingPaymentUpdatedEvent(b, previous))

	return nil
}

// BalanceDue returns what remains to be paid
func (b *Booking) BalanceDue() decimal.Decimal {
	switch b.PaymentStatus {
	case PaymentDepositPaid:
		return b.TotalAmount.Sub(b.DepositAmount)
	case PaymentPaid, PaymentRefunded:
		return decimal.Zero
	}
	return b.TotalAmount
}

// GenerateBookingNumber returns a number of the form B-YYYYMMDD-XXXXXX
func GenerateBookingNumber(now time.Time) string {
	return shared.GenerateNumber("B", now)
}

func invalidTransition(from, to Status) error {
	return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot change booking from %s to %s", from, to))
}
