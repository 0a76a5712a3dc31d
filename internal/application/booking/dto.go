package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/shopspring/decimal"
)

// CancelBookingRequest cancels a booking
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// RescheduleBookingRequest moves a booking to a new date
type RescheduleBookingRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// UpdatePaymentRequest records a payment status change
type UpdatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required,oneof=unpaid deposit_paid paid refunded"`
}

// BookingListFilter represents filter options for the booking list
type BookingListFilter struct {
	Status        string     `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	PaymentStatus string     `form:"payment_status" binding:"omitempty,oneof=unpaid deposit_paid paid refunded"`
	ServiceType   string     `form:"service_type" binding:"omitempty,service_type"`
	CustomerID    string     `form:"customer_id" binding:"omitempty,uuid"`
	ScheduledFrom *time.Time `form:"scheduled_from" time_format:"2006-01-02"`
	ScheduledTo   *time.Time `form:"scheduled_to" time_format:"2006-01-02"`
	Search        string     `form:"search"`
	Page          int        `form:"page" binding:"omitempty,min=1"`
	PageSize      int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string     `form:"order_by"`
	OrderDir      string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID                 uuid.UUID       `json:"id"`
	BookingNumber      string          `json:"booking_number"`
	QuoteID            uuid.UUID       `json:"quote_id"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	ServiceType        string          `json:"service_type"`
	ScheduledAt        time.Time       `json:"scheduled_at"`
	ServiceAddress     string          `json:"service_address"`
	DestinationAddress string          `json:"destination_address,omitempty"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	DepositAmount      decimal.Decimal `json:"deposit_amount"`
	BalanceDue         decimal.Decimal `json:"balance_due"`
	Currency           string          `json:"currency"`
	Status             string          `json:"status"`
	PaymentStatus      string          `json:"payment_status"`
	Notes              string          `json:"notes"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	ConfirmedAt        *time.Time      `json:"confirmed_at,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int             `json:"version"`
}

// ToBookingResponse converts a domain booking
func ToBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                 b.ID,
		BookingNumber:      b.BookingNumber,
		QuoteID:            b.QuoteID,
		CustomerID:         b.CustomerID,
		ServiceType:        string(b.ServiceType),
		ScheduledAt:        b.ScheduledAt,
		ServiceAddress:     b.ServiceAddress,
		DestinationAddress: b.DestinationAddress,
		TotalAmount:        b.TotalAmount,
		DepositAmount:      b.DepositAmount,
		BalanceDue:         b.BalanceDue(),
		Currency:           b.Currency,
		Status:             string(b.Status),
		PaymentStatus:      string(b.PaymentStatus),
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		ConfirmedAt:        b.ConfirmedAt,
		CompletedAt:        b.CompletedAt,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
		Version:            b.Version,
	}
}

// ToBookingResponses converts a slice of bookings
func ToBookingResponses(bookings []booking.Booking) []BookingResponse {
	responses := make([]BookingResponse, len(bookings))
	for i := range bookings {
		responses[i] = ToBookingResponse(&bookings[i])
	}
	return responses
}
