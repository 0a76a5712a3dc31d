package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/notification"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all notifications matching the filter
func (r *GormNotificationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]notification.Notification, error) {
	var notificationModels []models.NotificationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.NotificationModel{}), filter)
	query = paginate(query, filter, NotificationSortFields, "created_at")
	if err := query.Find(&notificationModels).Error; err != nil {
		return nil, err
	}
	return toNotifications(notificationModels), nil
}

// FindByCustomer finds the notifications addressed to a customer
func (r *GormNotificationRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var notificationModels []models.NotificationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.NotificationModel{}).Where("customer_id = ?", customerID), filter)
	query = paginate(query, filter, NotificationSortFields, "created_at")
	if err := query.Find(&notificationModels).Error; err != nil {
		return nil, err
	}
	return toNotifications(notificationModels), nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return mapError(r.db.WithContext(ctx).Save(models.NotificationModelFromDomain(n)).Error)
}

// Count counts notifications matching the filter
func (r *GormNotificationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.NotificationModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsForEvent checks whether the event already produced a notification from template
func (r *GormNotificationRepository) ExistsForEvent(ctx context.Context, sourceEventID uuid.UUID, template string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Where("source_event_id = ? AND template = ?", sourceEventID, template).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormNotificationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("recipient ILIKE ?", "%"+filter.Search+"%")
	}
	if status, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if channel, ok := filterString(filter, "channel"); ok {
		query = query.Where("channel = ?", channel)
	}
	if template, ok := filterString(filter, "template"); ok {
		query = query.Where("template = ?", template)
	}
	if customerID, ok := filterString(filter, "customer_id"); ok {
		query = query.Where("customer_id = ?", customerID)
	}
	return query
}

func toNotifications(notificationModels []models.NotificationModel) []notification.Notification {
	notifications := make([]notification.Notification, len(notificationModels))
	for i := range notificationModels {
		notifications[i] = *notificationModels[i].ToDomain()
	}
	return notifications
}
