package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/shared"
)

// RuleRepository defines the interface for pricing rule persistence
type RuleRepository interface {
	// FindByID finds a rule by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Rule, error)

	// FindByName finds a rule by its unique name
	FindByName(ctx context.Context, name string) (*Rule, error)

	// FindAll finds all rules matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Rule, error)

	// FindActiveForService finds active rules scoped to the service type or to all services
	FindActiveForService(ctx context.Context, serviceType ServiceType) ([]Rule, error)

	// Save creates or updates a rule
	Save(ctx context.Context, rule *Rule) error

	// Delete deletes a rule
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts rules matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByName checks if a rule with the given name exists
	ExistsByName(ctx context.Context, name string) (bool, error)
}
