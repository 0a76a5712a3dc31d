package quote

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/shared"
)

// QuoteRepository defines the interface for quote persistence
type QuoteRepository interface {
	// FindByID finds a quote by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Quote, error)

	// FindByNumber finds a quote by its quote number
	FindByNumber(ctx context.Context, quoteNumber string) (*Quote, error)

	// FindAll finds all quotes matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Quote, error)

	// FindByCustomer finds quotes for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Quote, error)

	// FindExpirable finds pending quotes whose expiry is at or before now
	FindExpirable(ctx context.Context, now time.Time, limit int) ([]Quote, error)

	// Save creates or updates a quote
	Save(ctx context.Context, quote *Quote) error

	// Count counts quotes matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByStatus counts quotes in a status
	CountByStatus(ctx context.Context, status Status) (int64, error)
}
