package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/quote"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormQuoteRepository implements quote.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

var _ quote.QuoteRepository = (*GormQuoteRepository)(nil)

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormQuoteRepository) WithTx(tx *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: tx}
}

// FindByID finds a quote by its ID
func (r *GormQuoteRepository) FindByID(ctx context.Context, id uuid.UUID) (*quote.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a quote by its quote number
func (r *GormQuoteRepository) FindByNumber(ctx context.Context, quoteNumber string) (*quote.Quote, error) {
	var model models.QuoteModel
	if err := r.db.WithContext(ctx).Where("quote_number = ?", quoteNumber).First(&model).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all quotes matching the filter
func (r *GormQuoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quote.Quote, error) {
	var quoteModels []models.QuoteModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.QuoteModel{}), filter)
	query = paginate(query, filter, QuoteSortFields, "created_at")
	if err := query.Find(&quoteModels).Error; err != nil {
		return nil, err
	}
	return toQuotes(quoteModels), nil
}

// FindByCustomer finds the quotes requested by a customer
func (r *GormQuoteRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]quote.Quote, error) {
	var quoteModels []models.QuoteModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.QuoteModel{}).Where("customer_id = ?", customerID), filter)
	query = paginate(query, filter, QuoteSortFields, "created_at")
	if err := query.Find(&quoteModels).Error; err != nil {
		return nil, err
	}
	return toQuotes(quoteModels), nil
}

// FindExpirable returns up to limit pending quotes whose expiry is at or before now,
// oldest expiry first
func (r *GormQuoteRepository) FindExpirable(ctx context.Context, now time.Time, limit int) ([]quote.Quote, error) {
	var quoteModels []models.QuoteModel
	query := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", quote.StatusPending, now).
		Order("expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&quoteModels).Error; err != nil {
		return nil, err
	}
	return toQuotes(quoteModels), nil
}

// Save creates or updates a quote
func (r *GormQuoteRepository) Save(ctx context.Context, q *quote.Quote) error {
	return saveVersioned(ctx, r.db, models.QuoteModelFromDomain(q), q)
}

// Count counts quotes matching the filter
func (r *GormQuoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.QuoteModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus counts quotes in the given status
func (r *GormQuoteRepository) CountByStatus(ctx context.Context, status quote.Status) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.QuoteModel{}).
		Where("status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormQuoteRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("quote_number ILIKE ? OR contact_email ILIKE ? OR contact_name ILIKE ?", search, search, search)
	}
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if serviceType, ok := filterString(filter, "service_type"); ok {
		query = query.Where("service_type = ?", serviceType)
	}
	if customerID, ok := filterString(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", customerID)
	}
	return query
}

func toQuotes(quoteModels []models.QuoteModel) []quote.Quote {
	quotes := make([]quote.Quote, len(quoteModels))
	for i := range quoteModels {
		quotes[i] = *quoteModels[i].ToDomain()
	}
	return quotes
}
