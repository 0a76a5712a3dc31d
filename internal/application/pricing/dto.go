package pricing

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// ConditionRequest is one rule condition
type ConditionRequest struct {
	Field    string   `json:"field" binding:"required"`
	Operator string   `json:"operator" binding:"required,oneof=eq neq in not_in gt gte lt lte between"`
	Values   []string `json:"values" binding:"required,min=1"`
}

// CreateRuleRequest represents a request to create a pricing rule
type CreateRuleRequest struct {
	Name            string             `json:"name" binding:"required,min=1,max=200"`
	Description     string             `json:"description" binding:"max=1000"`
	ServiceType     string             `json:"service_type" binding:"omitempty,service_type"`
	Conditions      []ConditionRequest `json:"conditions" binding:"dive"`
	AdjustmentType  string             `json:"adjustment_type" binding:"required,oneof=percentage fixed"`
	AdjustmentValue decimal.Decimal    `json:"adjustment_value"`
	Priority        int                `json:"priority" binding:"min=0"`
	IsActive        *bool              `json:"is_active"`
	ValidFrom       *time.Time         `json:"valid_from"`
	ValidUntil      *time.Time         `json:"valid_until"`
}

// UpdateRuleRequest replaces the editable fields of a rule
type UpdateRuleRequest struct {
	Name            string             `json:"name" binding:"required,min=1,max=200"`
	Description     string             `json:"description" binding:"max=1000"`
	ServiceType     string             `json:"service_type" binding:"omitempty,service_type"`
	Conditions      []ConditionRequest `json:"conditions" binding:"dive"`
	AdjustmentType  string             `json:"adjustment_type" binding:"required,oneof=percentage fixed"`
	AdjustmentValue decimal.Decimal    `json:"adjustment_value"`
	Priority        int                `json:"priority" binding:"min=0"`
	ValidFrom       *time.Time         `json:"valid_from"`
	ValidUntil      *time.Time         `json:"valid_until"`
}

// RuleListFilter represents filter options for the rule list
type RuleListFilter struct {
	Search      string `form:"search"`
	ServiceType string `form:"service_type" binding:"omitempty,service_type"`
	IsActive    *bool  `form:"is_active"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ConditionResponse is a rule condition in API responses
type ConditionResponse struct {
	Field    string   `json:"field"`
	Operator string   `json:"operator"`
	Values   []string `json:"values"`
}

// RuleResponse represents a pricing rule in API responses
type RuleResponse struct {
	ID              uuid.UUID           `json:"id"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	ServiceType     string              `json:"service_type"`
	Conditions      []ConditionResponse `json:"conditions"`
	AdjustmentType  string              `json:"adjustment_type"`
	AdjustmentValue decimal.Decimal     `json:"adjustment_value"`
	Priority        int                 `json:"priority"`
	IsActive        bool                `json:"is_active"`
	ValidFrom       *time.Time          `json:"valid_from,omitempty"`
	ValidUntil      *time.Time          `json:"valid_until,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Version         int                 `json:"version"`
}

// ToRuleResponse converts a domain rule
func ToRuleResponse(r *pricing.Rule) RuleResponse {
	conditions := make([]ConditionResponse, len(r.Conditions))
	for i, c := range r.Conditions {
		conditions[i] = ConditionResponse{
			Field:    string(c.Field),
			Operator: string(c.Operator),
			Values:   append([]string(nil), c.Values...),
		}
	}
	return RuleResponse{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		ServiceType:     string(r.ServiceType),
		Conditions:      conditions,
		AdjustmentType:  string(r.Adjustment.Type),
		AdjustmentValue: r.Adjustment.Value,
		Priority:        r.Priority,
		IsActive:        r.IsActive,
		ValidFrom:       r.ValidFrom,
		ValidUntil:      r.ValidUntil,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		Version:         r.Version,
	}
}

// ToRuleResponses converts a slice of rules
func ToRuleResponses(rules []pricing.Rule) []RuleResponse {
	responses := make([]RuleResponse, len(rules))
	for i := range rules {
		responses[i] = ToRuleResponse(&rules[i])
	}
	return responses
}

// AppliedAdjustmentResponse is one matched rule in a price breakdown
type AppliedAdjustmentResponse struct {
	RuleID   uuid.UUID       `json:"rule_id"`
	RuleName string          `json:"rule_name"`
	Type     string          `json:"type"`
	Value    decimal.Decimal `json:"value"`
	Amount   decimal.Decimal `json:"amount"`
}

// PriceBreakdown is a pricing result in API responses
type PriceBreakdown struct {
	Currency        string                      `json:"currency"`
	BasePrice       decimal.Decimal             `json:"base_price"`
	Adjustments     []AppliedAdjustmentResponse `json:"adjustments"`
	TotalAdjustment decimal.Decimal             `json:"total_adjustment"`
	MinimumApplied  bool                        `json:"minimum_applied"`
	FinalPrice      decimal.Decimal             `json:"final_price"`
}

// ToPriceBreakdown converts an engine result
func ToPriceBreakdown(r pricing.Result) PriceBreakdown {
	adjustments := make([]AppliedAdjustmentResponse, len(r.Adjustments))
	for i, a := range r.Adjustments {
		adjustments[i] = AppliedAdjustmentResponse{
			RuleID:   a.RuleID,
			RuleName: a.RuleName,
			Type:     string(a.Type),
			Value:    a.Value,
			Amount:   a.Amount,
		}
	}
	return PriceBreakdown{
		Currency:        r.Currency,
		BasePrice:       r.BasePrice,
		Adjustments:     adjustments,
		TotalAdjustment: r.TotalAdjustment,
		MinimumApplied:  r.MinimumApplied,
		FinalPrice:      r.FinalPrice,
	}
}
