package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeBooking = "Booking"

// Event type constants
const (
	EventTypeBookingCreated        = "BookingCreated"
	EventTypeBookingConfirmed      = "BookingConfirmed"
	EventTypeBookingCompleted      = "BookingCompleted"
	EventTypeBookingCancelled      = "BookingCancelled"
	EventTypeBookingRescheduled    = "BookingRescheduled"
	EventTypeBookingPaymentUpdated = "BookingPaymentUpdated"
)

// BookingCreatedEvent is published when an accepted quote is booked
type BookingCreatedEvent struct {
	shared.BaseDomainEvent
	BookingID     uuid.UUID           `json:"booking_id"`
	BookingNumber string              `json:"booking_number"`
	QuoteID       uuid.UUID           `json:"quote_id"`
	CustomerID    uuid.UUID           `json:"customer_id"`
	ServiceType   pricing.ServiceType `json:"service_type"`
	ScheduledAt   time.Time           `json:"scheduled_at"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	DepositAmount decimal.Decimal     `json:"deposit_amount"`
	Currency      string              `json:"currency"`
}

// NewBookingCreatedEvent creates a new BookingCreatedEvent
func NewBookingCreatedEvent(b *Booking) *BookingCreatedEvent {
	return &BookingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingCreated, AggregateTypeBooking, b.ID),
		BookingID:       b.ID,
		BookingNumber:   b.BookingNumber,
		QuoteID:         b.QuoteID,
		CustomerID:      b.CustomerID,
		ServiceType:     b.ServiceType,
		ScheduledAt:     b.ScheduledAt,
		TotalAmount:     b.TotalAmount,
		DepositAmount:   b.DepositAmount,
		Currency:        b.Currency,
	}
}

// BookingStatusEvent is published when a booking is confirmed, completed or cancelled
type BookingStatusEvent struct {
	shared.BaseDomainEvent
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
	Status        Status    `json:"status"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Reason        string    `json:"reason,omitempty"`
}

// NewBookingStatusEvent creates a new BookingStatusEvent of the given type
func NewBookingStatusEvent(b *Booking, eventType string) *BookingStatusEvent {
	return &BookingStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeBooking, b.ID),
		BookingID:       b.ID,
		BookingNumber:   b.BookingNumber,
		CustomerID:      b.CustomerID,
		Status:          b.Status,
		ScheduledAt:     b.ScheduledAt,
		Reason:          b.CancellationReason,
	}
}

// BookingRescheduledEvent is published when the service date moves
type BookingRescheduledEvent struct {
	shared.BaseDomainEvent
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CustomerID    uuid.UUID `json:"customer_id"`
	PreviousDate  time.Time `json:"previous_date"`
	ScheduledAt   time.Time `json:"scheduled_at"`
}

// NewBookingRescheduledEvent creates a new BookingRescheduledEvent
func NewBookingRescheduledEvent(b *Booking, previous time.Time) *BookingRescheduledEvent {
	return &BookingRescheduledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingRescheduled, AggregateTypeBooking, b.ID),
		BookingID:       b.ID,
		BookingNumber:   b.BookingNumber,
		CustomerID:      b.CustomerID,
		PreviousDate:    previous,
		ScheduledAt:     b.ScheduledAt,
	}
}

// BookingPaymentUpdatedEvent is published when the payment status changes
type BookingPaymentUpdatedEvent struct {
	shared.BaseDomainEvent
	BookingID      uuid.UUID       `json:"booking_id"`
	BookingNumber  string          `json:"booking_number"`
	CustomerID     uuid.UUID       `json:"customer_id"`
	PreviousStatus PaymentStatus   `json:"previous_status"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	BalanceDue     decimal.Decimal `json:"balance_due"`
	Currency       string          `json:"currency"`
}

// NewBookingPaymentUpdatedEvent creates a new BookingPaymentUpdatedEvent
func NewBookingPaymentUpdatedEvent(b *Booking, previous PaymentStatus) *BookingPaymentUpdatedEvent {
	return &BookingPaymentUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBookingPaymentUpdated, AggregateTypeBooking, b.ID),
		BookingID:       b.ID,
		BookingNumber:   b.BookingNumber,
		CustomerID:      b.CustomerID,
		PreviousStatus:  previous,
		PaymentStatus:   b.PaymentStatus,
		BalanceDue:      b.BalanceDue(),
		Currency:        b.Currency,
	}
}
