package pricing

import (
	"context"
	"time"

	"github.com/quotebook/backend/internal/domain/pricing"
)

// RateCardProvider supplies the current rate card
type RateCardProvider interface {
	RateCard(ctx context.Context) (pricing.RateCard, error)
}

// EvaluationRecorder counts price evaluations
type EvaluationRecorder interface {
	PriceEvaluated(serviceType string)
}

// Calculator prices a context against the rate card and the active rules
// for its service type.
type Calculator struct {
	ruleRepo pricing.RuleRepository
	rates    RateCardProvider
	engine   *pricing.Engine
	recorder EvaluationRecorder
}

// NewCalculator creates a new Calculator
func NewCalculator(ruleRepo pricing.RuleRepository, rates RateCardProvider) *Calculator {
	return &Calculator{
		ruleRepo: ruleRepo,
		rates:    rates,
		engine:   pricing.NewEngine(),
	}
}

// SetRecorder sets the metrics recorder
func (c *Calculator) SetRecorder(recorder EvaluationRecorder) {
	c.recorder = recorder
}

// Calculate prices pctx. Rule validity windows are checked at the service
// date, or at now when the request has none.
func (c *Calculator) Calculate(ctx context.Context, pctx pricing.Context, now time.Time) (pricing.Result, error) {
	pctx = pctx.Normalize()
	if err := pctx.Validate(); err != nil {
		return pricing.Result{}, err
	}

	card, err := c.rates.RateCard(ctx)
	if err != nil {
		return pricing.Result{}, err
	}
	rules, err := c.ruleRepo.FindActiveForService(ctx, pctx.ServiceType)
	if err != nil {
		return pricing.Result{}, err
	}

	result, err := c.engine.Evaluate(pctx, card, rules, pctx.EvaluationTime(now))
	if err != nil {
		return pricing.Result{}, err
	}
	if c.recorder != nil {
		c.recorder.PriceEvaluated(string(pctx.ServiceType))
	}
	return result, nil
}
