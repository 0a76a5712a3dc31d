package booking

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/shared"
)

// BookingRepository defines the interface for booking persistence
type BookingRepository interface {
	// FindByID finds a booking by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByQuoteID finds the booking created from a quote
	FindByQuoteID(ctx context.Context, quoteID uuid.UUID) (*Booking, error)

	// FindAll finds all bookings matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Booking, error)

	// FindByCustomer finds bookings for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Booking, error)

	// Save creates or updates a booking
	Save(ctx context.Context, booking *Booking) error

	// Count counts bookings matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByQuoteID checks whether a quote has already been booked
	ExistsByQuoteID(ctx context.Context, quoteID uuid.UUID) (bool, error)
}
