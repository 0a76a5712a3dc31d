package pricing

import (
	"strings"
	"time"

	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AdjustmentType is how a rule changes the running price
type AdjustmentType string

const (
	AdjustmentPercentage AdjustmentType = "percentage"
	AdjustmentFixed      AdjustmentType = "fixed"
)

// IsValid reports whether the adjustment type is known
func (a AdjustmentType) IsValid() bool {
	return a == AdjustmentPercentage || a == AdjustmentFixed
}

var (
	minPercentage = decimal.NewFromInt(-100)
	maxPercentage = decimal.NewFromInt(1000)
	hundred       = decimal.NewFromInt(100)
)

// Adjustment is a price effect. A positive value is a surcharge, a negative one a discount.
type Adjustment struct {
	Type  AdjustmentType  `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// NewAdjustment creates a validated adjustment
func NewAdjustment(adjType AdjustmentType, value decimal.Decimal) (Adjustment, error) {
	a := Adjustment{Type: adjType, Value: value}
	if err := a.Validate(); err != nil {
		return Adjustment{}, err
	}
	return a, nil
}

// Validate checks the adjustment type and bounds
func (a Adjustment) Validate() error {
	if !a.Type.IsValid() {
		return shared.NewDomainError("INVALID_ADJUSTMENT_TYPE", "Adjustment type must be percentage or fixed")
	}
	if a.Value.IsZero() {
		return shared.NewDomainError("INVALID_ADJUSTMENT_VALUE", "Adjustment value cannot be zero")
	}
	if a.Type == AdjustmentPercentage && (a.Value.LessThan(minPercentage) || a.Value.GreaterThan(maxPercentage)) {
		return shared.NewDomainError("INVALID_ADJUSTMENT_VALUE", "Percentage must be between -100 and 1000")
	}
	return nil
}

// AmountFor returns the change this adjustment makes to the running price
func (a Adjustment) AmountFor(running decimal.Decimal) decimal.Decimal {
	if a.Type == AdjustmentPercentage {
		return running.Mul(a.Value).Div(hundred).Round(2)
	}
	return a.Value.Round(2)
}

// Rule pairs a set of conditions with a price adjustment
type Rule struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	// ServiceType restricts the rule to one service; empty applies to all
	ServiceType ServiceType
	Conditions  []Condition
	Adjustment  Adjustment
	// Priority orders application, lower first
	Priority   int
	IsActive   bool
	ValidFrom  *time.Time
	ValidUntil *time.Time
}

// NewRule creates a new active pricing rule
func NewRule(name, description string, serviceType ServiceType, adjustment Adjustment, priority int) (*Rule, error) {
	if err := validateRuleName(name); err != nil {
		return nil, err
	}
	if serviceType != "" && !serviceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SERVICE_TYPE", "Service type must be moving or cleaning")
	}
	if err := adjustment.Validate(); err != nil {
		return nil, err
	}
	if priority < 0 {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Priority cannot be negative")
	}

	rule := &Rule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Description:       description,
		ServiceType:       serviceType,
		Conditions:        make([]Condition, 0),
		Adjustment:        adjustment,
		Priority:          priority,
		IsActive:          true,
	}

	rule.AddDomainEvent(NewRuleCreatedEvent(rule))

	return rule, nil
}

// Update replaces the rule's descriptive fields, scope and effect
func (r *Rule) Update(name, description string, serviceType ServiceType, adjustment Adjustment, priority int) error {
	if err := validateRuleName(name); err != nil {
		return err
	}
	if serviceType != "" && !serviceType.IsValid() {
		return shared.NewDomainError("INVALID_SERVICE_TYPE", "Service type must be moving or cleaning")
	}
	if err := adjustment.Validate(); err != nil {
		return err
	}
	if priority < 0 {
		return shared.NewDomainError("INVALID_PRIORITY", "Priority cannot be negative")
	}

	r.Name = strings.TrimSpace(name)
	r.Description = description
	r.ServiceType = serviceType
	r.Adjustment = adjustment
	r.Priority = priority
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.recordChange()

	return nil
}

// SetConditions replaces the rule's conditions. All conditions must match for the rule to apply.
func (r *Rule) SetConditions(conditions []Condition) error {
	for _, c := range conditions {
		if err := c.Validate(); err != nil {
			return err
		}
	}

	r.Conditions = append(make([]Condition, 0, len(conditions)), conditions...)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.recordChange()

	return nil
}

// SetValidity sets the optional [from, until) window in which the rule applies
func (r *Rule) SetValidity(from, until *time.Time) error {
	if from != nil && until != nil && !until.After(*from) {
		return shared.NewDomainError("INVALID_VALIDITY", "Valid until must be after valid from")
	}

	r.ValidFrom = from
	r.ValidUntil = until
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.recordChange()

	return nil
}

// Activate enables the rule
func (r *Rule) Activate() error {
	if r.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Rule is already active")
	}

	r.IsActive = true
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRuleStatusChangedEvent(r, EventTypeRuleActivated))

	return nil
}

// Deactivate disables the rule
func (r *Rule) Deactivate() error {
	if !r.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Rule is already inactive")
	}

	r.IsActive = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRuleStatusChangedEvent(r, EventTypeRuleDeactivated))

	return nil
}

// recordChange refreshes the pending created or updated event with the
// current state, or records a new updated event when none is pending.
// A batch of edits before a save therefore publishes one event carrying the
// final rule.
func (r *Rule) recordChange() {
	pending := r.PullDomainEvents()
	refreshed := false
	for i, e := range pending {
		switch e.EventType() {
		case EventTypeRuleCreated:
			pending[i] = NewRuleCreatedEvent(r)
			refreshed = true
		case EventTypeRuleUpdated:
			pending[i] = NewRuleUpdatedEvent(r)
			refreshed = true
		}
	}
	for _, e := range pending {
		r.AddDomainEvent(e)
	}
	if !refreshed {
		r.AddDomainEvent(NewRuleUpdatedEvent(r))
	}
}

// IsEffectiveAt reports whether the rule is active and inside its validity window
func (r *Rule) IsEffectiveAt(at time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.ValidFrom != nil && at.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && !at.Before(*r.ValidUntil) {
		return false
	}
	return true
}

// Matches reports whether the rule applies to the context at the given time
func (r *Rule) Matches(ctx Context, at time.Time) bool {
	if !r.IsEffectiveAt(at) {
		return false
	}
	if r.ServiceType != "" && r.ServiceType != ctx.ServiceType {
		return false
	}
	for _, c := range r.Conditions {
		if !c.Matches(ctx) {
			return false
		}
	}
	return true
}

func validateRuleName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Rule name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Rule name cannot exceed 200 characters")
	}
	return nil
}
