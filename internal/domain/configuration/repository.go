package configuration

import (
	"context"

	"github.com/quotebook/backend/internal/domain/shared"
)

// SettingRepository defines the interface for setting persistence
type SettingRepository interface {
	// FindByKey finds a setting by its key
	FindByKey(ctx context.Context, key string) (*Setting, error)

	// FindAll finds all settings matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Setting, error)

	// FindByPrefix finds all settings whose key starts with prefix
	FindByPrefix(ctx context.Context, prefix string) ([]Setting, error)

	// Save creates or updates a setting
	Save(ctx context.Context, setting *Setting) error

	// DeleteByKey deletes a setting by key
	DeleteByKey(ctx context.Context, key string) error

	// Count counts settings matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
