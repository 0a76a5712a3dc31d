package persistence

import (
	"context"

	"github.com/quotebook/backend/internal/domain/configuration"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingRepository implements configuration.SettingRepository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

var _ configuration.SettingRepository = (*GormSettingRepository)(nil)

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// FindByKey finds a setting by key
func (r *GormSettingRepository) FindByKey(ctx context.Context, key string) (*configuration.Setting, error) {
	var model models.SettingModel
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&model).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all settings matching the filter
func (r *GormSettingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]configuration.Setting, error) {
	var settingModels []models.SettingModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SettingModel{}), filter)
	query = paginate(query, filter, SettingSortFields, "key")
	if err := query.Find(&settingModels).Error; err != nil {
		return nil, err
	}
	return toSettings(settingModels), nil
}

// FindByPrefix finds every setting whose key starts with prefix, ordered by key
func (r *GormSettingRepository) FindByPrefix(ctx context.Context, prefix string) ([]configuration.Setting, error) {
	var settingModels []models.SettingModel
	query := r.db.WithContext(ctx).Model(&models.SettingModel{})
	if prefix != "" {
		query = query.Where("key LIKE ?", prefix+"%")
	}
	if err := query.Order("key ASC").Find(&settingModels).Error; err != nil {
		return nil, err
	}
	return toSettings(settingModels), nil
}

// Save upserts a setting by key
func (r *GormSettingRepository) Save(ctx context.Context, setting *configuration.Setting) error {
	model := models.SettingModelFromDomain(setting)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "value_type", "description", "updated_at"}),
		}).
		Create(model).Error
}

// DeleteByKey deletes a setting by key
func (r *GormSettingRepository) DeleteByKey(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.SettingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts settings matching the filter
func (r *GormSettingRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SettingModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSettingRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("key ILIKE ?", "%"+filter.Search+"%")
	}
	if prefix, ok := filterString(filter, "prefix"); ok {
		query = query.Where("key LIKE ?", prefix+"%")
	}
	return query
}

func toSettings(settingModels []models.SettingModel) []configuration.Setting {
	settings := make([]configuration.Setting, len(settingModels))
	for i := range settingModels {
		settings[i] = *settingModels[i].ToDomain()
	}
	return settings
}
