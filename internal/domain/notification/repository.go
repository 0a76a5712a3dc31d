package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/shared"
)

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// FindByID finds a notification by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindAll finds all notifications matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Notification, error)

	// FindByCustomer finds notifications sent to a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Notification, error)

	// Save creates or updates a notification
	Save(ctx context.Context, n *Notification) error

	// Count counts notifications matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsForEvent checks whether a notification was already created for a source event and template
	ExistsForEvent(ctx context.Context, sourceEventID uuid.UUID, template string) (bool, error)
}
