package pricing

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppliedAdjustment records one rule's effect on a price
type AppliedAdjustment struct {
	RuleID   uuid.UUID       `json:"rule_id"`
	RuleName string          `json:"rule_name"`
	Type     AdjustmentType  `json:"type"`
	Value    decimal.Decimal `json:"value"`
	Amount   decimal.Decimal `json:"amount"`
}

// Result is the outcome of evaluating rules against a context
type Result struct {
	Currency        string              `json:"currency"`
	BasePrice       decimal.Decimal     `json:"base_price"`
	Adjustments     []AppliedAdjustment `json:"adjustments"`
	TotalAdjustment decimal.Decimal     `json:"total_adjustment"`
	MinimumApplied  bool                `json:"minimum_applied"`
	FinalPrice      decimal.Decimal     `json:"final_price"`
}

// AppliedRuleNames returns the names of the applied rules in order
func (r Result) AppliedRuleNames() []string {
	names := make([]string, 0, len(r.Adjustments))
	for _, a := range r.Adjustments {
		names = append(names, a.RuleName)
	}
	return names
}

// Engine evaluates pricing rules
type Engine struct{}

// NewEngine creates a new pricing engine
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate prices the context. Matching rules are applied in (priority, name)
// order, each percentage taken on the running price. The final price is
// floored at the service minimum and at zero.
func (e *Engine) Evaluate(ctx Context, card RateCard, rules []Rule, at time.Time) (Result, error) {
	ctx = ctx.Normalize()
	if err := ctx.Validate(); err != nil {
		return Result{}, err
	}

	base := card.BasePrice(ctx)
	result := Result{
		Currency:        card.Currency,
		BasePrice:       base,
		Adjustments:     make([]AppliedAdjustment, 0),
		TotalAdjustment: decimal.Zero,
	}

	ordered := make([]*Rule, 0, len(rules))
	for i := range rules {
		ordered = append(ordered, &rules[i])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].Name < ordered[j].Name
	})

	running := base
	for _, rule := range ordered {
		if !rule.Matches(ctx, at) {
			continue
		}
		amount := rule.Adjustment.AmountFor(running)
		running = running.Add(amount)
		result.TotalAdjustment = result.TotalAdjustment.Add(amount)
		result.Adjustments = append(result.Adjustments, AppliedAdjustment{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			Type:     rule.Adjustment.Type,
			Value:    rule.Adjustment.Value,
			Amount:   amount,
		})
	}

	minimum := card.RatesFor(ctx.ServiceType).MinimumPrice
	if minimum.IsNegative() {
		minimum = decimal.Zero
	}
	if running.LessThan(minimum) {
		running = minimum
		result.MinimumApplied = true
	}

	result.FinalPrice = running.Round(2)
	return result, nil
}
