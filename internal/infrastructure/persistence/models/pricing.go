package models

import (
	"encoding/json"
	"time"

	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// PricingRuleModel is the persistence model for the pricing Rule aggregate.
type PricingRuleModel struct {
	AggregateColumns
	Name            string                 `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description     string                 `gorm:"type:text"`
	ServiceType     string                 `gorm:"type:varchar(20);index"`
	ConditionsJSON  string                 `gorm:"column:conditions;type:jsonb;not null;default:'[]'"`
	AdjustmentType  pricing.AdjustmentType `gorm:"type:varchar(20);not null"`
	AdjustmentValue decimal.Decimal        `gorm:"type:decimal(12,2);not null"`
	Priority        int                    `gorm:"not null;default:0;index"`
	IsActive        bool                   `gorm:"not null;default:true;index"`
	ValidFrom       *time.Time
	ValidUntil      *time.Time
}

// TableName returns the table name for GORM
func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}

// ToDomain converts the persistence model to a domain Rule.
// Malformed condition JSON yields a rule with no conditions, which the
// conditions column default and write path never produce.
func (m *PricingRuleModel) ToDomain() *pricing.Rule {
	conditions := make([]pricing.Condition, 0)
	if m.ConditionsJSON != "" {
		_ = json.Unmarshal([]byte(m.ConditionsJSON), &conditions)
	}

	return &pricing.Rule{
		BaseAggregateRoot: m.Aggregate(),
		Name:              m.Name,
		Description:       m.Description,
		ServiceType:       pricing.ServiceType(m.ServiceType),
		Conditions:        conditions,
		Adjustment: pricing.Adjustment{
			Type:  m.AdjustmentType,
			Value: m.AdjustmentValue,
		},
		Priority:   m.Priority,
		IsActive:   m.IsActive,
		ValidFrom:  m.ValidFrom,
		ValidUntil: m.ValidUntil,
	}
}

// PricingRuleModelFromDomain creates a persistence model from a domain Rule
func PricingRuleModelFromDomain(r *pricing.Rule) *PricingRuleModel {
	conditions := r.Conditions
	if conditions == nil {
		conditions = []pricing.Condition{}
	}
	raw, _ := json.Marshal(conditions)

	m := &PricingRuleModel{
		Name:            r.Name,
		Description:     r.Description,
		ServiceType:     string(r.ServiceType),
		ConditionsJSON:  string(raw),
		AdjustmentType:  r.Adjustment.Type,
		AdjustmentValue: r.Adjustment.Value,
		Priority:        r.Priority,
		IsActive:        r.IsActive,
		ValidFrom:       r.ValidFrom,
		ValidUntil:      r.ValidUntil,
	}
	m.setAggregate(r.BaseAggregateRoot)
	return m
}
