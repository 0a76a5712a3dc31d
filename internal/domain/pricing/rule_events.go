package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeRule = "PricingRule"

// Event type constants
const (
	EventTypeRuleCreated     = "PricingRuleCreated"
	EventTypeRuleUpdated     = "PricingRuleUpdated"
	EventTypeRuleActivated   = "PricingRuleActivated"
	EventTypeRuleDeactivated = "PricingRuleDeactivated"
)

// RuleCreatedEvent is published when a new pricing rule is created
type RuleCreatedEvent struct {
	shared.BaseDomainEvent
	RuleID          uuid.UUID       `json:"rule_id"`
	Name            string          `json:"name"`
	ServiceType     ServiceType     `json:"service_type,omitempty"`
	AdjustmentType  AdjustmentType  `json:"adjustment_type"`
	AdjustmentValue decimal.Decimal `json:"adjustment_value"`
	Conditions      []Condition     `json:"conditions"`
	ValidFrom       *time.Time      `json:"valid_from,omitempty"`
	ValidUntil      *time.Time      `json:"valid_until,omitempty"`
}

// NewRuleCreatedEvent creates a new RuleCreatedEvent
func NewRuleCreatedEvent(rule *Rule) *RuleCreatedEvent {
	return &RuleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRuleCreated, AggregateTypeRule, rule.ID),
		RuleID:          rule.ID,
		Name:            rule.Name,
		ServiceType:     rule.ServiceType,
		AdjustmentType:  rule.Adjustment.Type,
		AdjustmentValue: rule.Adjustment.Value,
		Conditions:      rule.Conditions,
		ValidFrom:       rule.ValidFrom,
		ValidUntil:      rule.ValidUntil,
	}
}

// RuleUpdatedEvent is published when a pricing rule is changed
type RuleUpdatedEvent struct {
	shared.BaseDomainEvent
	RuleID          uuid.UUID       `json:"rule_id"`
	Name            string          `json:"name"`
	ServiceType     ServiceType     `json:"service_type,omitempty"`
	AdjustmentType  AdjustmentType  `json:"adjustment_type"`
	AdjustmentValue decimal.Decimal `json:"adjustment_value"`
	Priority        int             `json:"priority"`
	Conditions      []Condition     `json:"conditions"`
	ValidFrom       *time.Time      `json:"valid_from,omitempty"`
	ValidUntil      *time.Time      `json:"valid_until,omitempty"`
}

// NewRuleUpdatedEvent creates a new RuleUpdatedEvent
func NewRuleUpdatedEvent(rule *Rule) *RuleUpdatedEvent {
	return &RuleUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRuleUpdated, AggregateTypeRule, rule.ID),
		RuleID:          rule.ID,
		Name:            rule.Name,
		ServiceType:     rule.ServiceType,
		AdjustmentType:  rule.Adjustment.Type,
		AdjustmentValue: rule.Adjustment.Value,
		Priority:        rule.Priority,
		Conditions:      rule.Conditions,
		ValidFrom:       rule.ValidFrom,
		ValidUntil:      rule.ValidUntil,
	}
}

// RuleStatusChangedEvent is published when a rule is activated or deactivated
type RuleStatusChangedEvent struct {
	shared.BaseDomainEvent
	RuleID   uuid.UUID `json:"rule_id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}

// NewRuleStatusChangedEvent creates a new RuleStatusChangedEvent
func NewRuleStatusChangedEvent(rule *Rule, eventType string) *RuleStatusChangedEvent {
	return &RuleStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeRule, rule.ID),
		RuleID:          rule.ID,
		Name:            rule.Name,
		IsActive:        rule.IsActive,
	}
}
