package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/document"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDocumentRepository implements document.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

var _ document.DocumentRepository = (*GormDocumentRepository)(nil)

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by its ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var model models.DocumentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToDomain(), nil
}

// FindByOwner lists the documents attached to an owner
func (r *GormDocumentRepository) FindByOwner(ctx context.Context, ownerType document.OwnerType, ownerID uuid.UUID, filter shared.Filter) ([]document.Document, error) {
	var documentModels []models.DocumentModel
	query := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID)
	query = paginate(query, filter, DocumentSortFields, "created_at")
	if err := query.Find(&documentModels).Error; err != nil {
		return nil, err
	}

	docs := make([]document.Document, len(documentModels))
	for i := range documentModels {
		docs[i] = *documentModels[i].ToDomain()
	}
	return docs, nil
}

// CountByOwner counts the documents attached to an owner
func (r *GormDocumentRepository) CountByOwner(ctx context.Context, ownerType document.OwnerType, ownerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DocumentModel{}).
		Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates document metadata
func (r *GormDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	return mapError(r.db.WithContext(ctx).Save(models.DocumentModelFromDomain(doc)).Error)
}

// Delete deletes document metadata
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DocumentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
