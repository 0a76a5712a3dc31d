package document

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/customer"
	"github.com/quotebook/backend/internal/domain/document"
	"github.com/quotebook/backend/internal/domain/quote"
	"github.com/quotebook/backend/internal/domain/shared"
)

// OwnerChecker reports whether a document owner exists
type OwnerChecker interface {
	OwnerExists(ctx context.Context, ownerType document.OwnerType, ownerID uuid.UUID) (bool, error)
}

// RepositoryOwnerChecker resolves owners through their repositories
type RepositoryOwnerChecker struct {
	quotes    quote.QuoteRepository
	bookings  booking.BookingRepository
	customers customer.CustomerRepository
}

// NewRepositoryOwnerChecker creates a new RepositoryOwnerChecker
func NewRepositoryOwnerChecker(quotes quote.QuoteRepository, bookings booking.BookingRepository, customers customer.CustomerRepository) *RepositoryOwnerChecker {
	return &RepositoryOwnerChecker{
		quotes:    quotes,
		bookings:  bookings,
		customers: customers,
	}
}

// OwnerExists implements OwnerChecker
func (c *RepositoryOwnerChecker) OwnerExists(ctx context.Context, ownerType document.OwnerType, ownerID uuid.UUID) (bool, error) {
	var err error
	switch ownerType {
	case document.OwnerQuote:
		_, err = c.quotes.FindByID(ctx, ownerID)
	case document.OwnerBooking:
		_, err = c.bookings.FindByID(ctx, ownerID)
	case document.OwnerCustomer:
		_, err = c.customers.FindByID(ctx, ownerID)
	default:
		return false, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
