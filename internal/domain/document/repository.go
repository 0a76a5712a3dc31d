package document

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/shared"
)

// DocumentRepository defines the interface for document metadata persistence
type DocumentRepository interface {
	// FindByID finds a document by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindByOwner finds documents attached to an owner
	FindByOwner(ctx context.Context, ownerType OwnerType, ownerID uuid.UUID, filter shared.Filter) ([]Document, error)

	// CountByOwner counts documents attached to an owner
	CountByOwner(ctx context.Context, ownerType OwnerType, ownerID uuid.UUID) (int64, error)

	// Save creates or updates a document
	Save(ctx context.Context, doc *Document) error

	// Delete deletes a document
	Delete(ctx context.Context, id uuid.UUID) error
}
