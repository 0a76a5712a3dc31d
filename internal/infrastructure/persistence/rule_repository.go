package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRuleRepository implements pricing.RuleRepository using GORM
type GormRuleRepository struct {
	db *gorm.DB
}

var _ pricing.RuleRepository = (*GormRuleRepository)(nil)

// NewGormRuleRepository creates a new GormRuleRepository
func NewGormRuleRepository(db *gorm.DB) *GormRuleRepository {
	return &GormRuleRepository{db: db}
}

// FindByID finds a rule by its ID
func (r *GormRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Rule, error) {
	var model models.PricingRuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToDomain(), nil
}

// FindByName finds a rule by its unique name
func (r *GormRuleRepository) FindByName(ctx context.Context, name string) (*pricing.Rule, error) {
	var model models.PricingRuleModel
	if err := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&model).Error; err != nil {
		return nil, mapError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all rules matching the filter
func (r *GormRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.Rule, error) {
	var ruleModels []models.PricingRuleModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PricingRuleModel{}), filter)
	query = paginate(query, filter, RuleSortFields, "priority")

	if err := query.Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	return toRules(ruleModels), nil
}

// FindActiveForService returns the active rules scoped to serviceType or to all
// services, ordered by priority then name. Validity windows are checked by the engine.
func (r *GormRuleRepository) FindActiveForService(ctx context.Context, serviceType pricing.ServiceType) ([]pricing.Rule, error) {
	var ruleModels []models.PricingRuleModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND (service_type = ? OR service_type = '')", true, serviceType).
		Order("priority ASC, name ASC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	return toRules(ruleModels), nil
}

// Save creates or updates a rule
func (r *GormRuleRepository) Save(ctx context.Context, rule *pricing.Rule) error {
	return saveVersioned(ctx, r.db, models.PricingRuleModelFromDomain(rule), rule)
}

// Delete deletes a rule
func (r *GormRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.PricingRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts rules matching the filter
func (r *GormRuleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.PricingRuleModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByName checks if a rule with the given name exists
func (r *GormRuleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PricingRuleModel{}).
		Where("name = ?", strings.TrimSpace(name)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRuleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if serviceType, ok := filterString(filter, "service_type"); ok {
		query = query.Where("service_type = ?", serviceType)
	}
	if active, ok := filterBool(filter, "is_active"); ok {
		query = query.Where("is_active = ?", active)
	}
	return query
}

func toRules(ruleModels []models.PricingRuleModel) []pricing.Rule {
	rules := make([]pricing.Rule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = *ruleModels[i].ToDomain()
	}
	return rules
}
