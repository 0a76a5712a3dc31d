package pricing

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/quotebook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RuleService handles pricing rule administration
type RuleService struct {
	ruleRepo       pricing.RuleRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewRuleService creates a new RuleService
func NewRuleService(ruleRepo pricing.RuleRepository, logger *zap.Logger) *RuleService {
	return &RuleService{
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RuleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new pricing rule
func (s *RuleService) Create(ctx context.Context, req CreateRuleRequest) (*RuleResponse, error) {
	exists, err := s.ruleRepo.ExistsByName(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Pricing rule with this name already exists")
	}

	adjustment, err := pricing.NewAdjustment(pricing.AdjustmentType(req.AdjustmentType), req.AdjustmentValue)
	if err != nil {
		return nil, err
	}
	rule, err := pricing.NewRule(req.Name, req.Description, pricing.ServiceType(req.ServiceType), adjustment, req.Priority)
	if err != nil {
		return nil, err
	}

	conditions, err := toConditions(req.Conditions)
	if err != nil {
		return nil, err
	}
	if err := rule.SetConditions(conditions); err != nil {
		return nil, err
	}
	if req.ValidFrom != nil || req.ValidUntil != nil {
		if err := rule.SetValidity(req.ValidFrom, req.ValidUntil); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil && !*req.IsActive {
		if err := rule.Deactivate(); err != nil {
			return nil, err
		}
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, rule)

	s.logger.Info("Pricing rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("name", rule.Name),
		zap.String("adjustment_type", string(rule.Adjustment.Type)),
	)

	response := ToRuleResponse(rule)
	return &response, nil
}

// GetByID retrieves a rule by ID
func (s *RuleService) GetByID(ctx context.Context, id uuid.UUID) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRuleResponse(rule)
	return &response, nil
}

// List retrieves rules with filtering and pagination
func (s *RuleService) List(ctx context.Context, filter RuleListFilter) ([]RuleResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "priority"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.ServiceType != "" {
		domainFilter.Filters["service_type"] = filter.ServiceType
	}
	if filter.IsActive != nil {
		domainFilter.Filters["is_active"] = *filter.IsActive
	}

	rules, err := s.ruleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.ruleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToRuleResponses(rules), total, nil
}

// Update replaces a rule's definition
func (s *RuleService) Update(ctx context.Context, id uuid.UUID, req UpdateRuleRequest) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name != rule.Name {
		exists, err := s.ruleRepo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Pricing rule with this name already exists")
		}
	}

	adjustment, err := pricing.NewAdjustment(pricing.AdjustmentType(req.AdjustmentType), req.AdjustmentValue)
	if err != nil {
		return nil, err
	}
	conditions, err := toConditions(req.Conditions)
	if err != nil {
		return nil, err
	}

	if err := rule.Update(name, req.Description, pricing.ServiceType(req.ServiceType), adjustment, req.Priority); err != nil {
		return nil, err
	}
	if err := rule.SetConditions(conditions); err != nil {
		return nil, err
	}
	if err := rule.SetValidity(req.ValidFrom, req.ValidUntil); err != nil {
		return nil, err
	}

	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, rule)

	response := ToRuleResponse(rule)
	return &response, nil
}

// Delete deletes a rule
func (s *RuleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.ruleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Pricing rule deleted", zap.String("rule_id", id.String()))
	return nil
}

// Activate activates a rule
func (s *RuleService) Activate(ctx context.Context, id uuid.UUID) (*RuleResponse, error) {
	return s.changeStatus(ctx, id, (*pricing.Rule).Activate)
}

// Deactivate deactivates a rule
func (s *RuleService) Deactivate(ctx context.Context, id uuid.UUID) (*RuleResponse, error) {
	return s.changeStatus(ctx, id, (*pricing.Rule).Deactivate)
}

func (s *RuleService) changeStatus(ctx context.Context, id uuid.UUID, change func(*pricing.Rule) error) (*RuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := change(rule); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, rule)

	response := ToRuleResponse(rule)
	return &response, nil
}

func (s *RuleService) publishDomainEvents(ctx context.Context, rule *pricing.Rule) {
	if err := shared.PublishPending(ctx, s.eventPublisher, rule); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

func toConditions(reqs []ConditionRequest) ([]pricing.Condition, error) {
	conditions := make([]pricing.Condition, 0, len(reqs))
	for _, r := range reqs {
		c, err := pricing.NewCondition(pricing.ConditionField(strings.TrimSpace(r.Field)), pricing.Operator(r.Operator), r.Values...)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, c)
	}
	return conditions, nil
}
