package pricing

import (
	"errors"
	"testing"
	"time"

	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func mustAdjustment(t *testing.T, adjType AdjustmentType, value string) Adjustment {
	t.Helper()
	a, err := NewAdjustment(adjType, decimal.RequireFromString(value))
	require.NoError(t, err)
	return a
}

func TestNewAdjustment(t *testing.T) {
	t.Run("percentage within bounds", func(t *testing.T) {
		_, err := NewAdjustment(AdjustmentPercentage, decimal.NewFromInt(-100))
		assert.NoError(t, err)
	})

	t.Run("percentage below bounds", func(t *testing.T) {
		_, err := NewAdjustment(AdjustmentPercentage, decimal.NewFromInt(-101))
		assert.Equal(t, "INVALID_ADJUSTMENT_VALUE", errorCode(err))
	})

	t.Run("zero value", func(t *testing.T) {
		_, err := NewAdjustment(AdjustmentFixed, decimal.Zero)
		assert.Equal(t, "INVALID_ADJUSTMENT_VALUE", errorCode(err))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewAdjustment("multiplier", decimal.NewFromInt(2))
		assert.Equal(t, "INVALID_ADJUSTMENT_TYPE", errorCode(err))
	})

	t.Run("fixed amount is not bounded", func(t *testing.T) {
		_, err := NewAdjustment(AdjustmentFixed, decimal.NewFromInt(5000))
		assert.NoError(t, err)
	})
}

func TestAdjustment_AmountFor(t *testing.T) {
	running := decimal.RequireFromString("250.00")

	pct := Adjustment{Type: AdjustmentPercentage, Value: decimal.RequireFromString("12.5")}
	assert.True(t, pct.AmountFor(running).Equal(decimal.RequireFromString("31.25")))

	discount := Adjustment{Type: AdjustmentPercentage, Value: decimal.NewFromInt(-10)}
	assert.True(t, discount.AmountFor(running).Equal(decimal.NewFromInt(-25)))

	fixed := Adjustment{Type: AdjustmentFixed, Value: decimal.NewFromInt(40)}
	assert.True(t, fixed.AmountFor(running).Equal(decimal.NewFromInt(40)))
}

func TestNewRule(t *testing.T) {
	t.Run("creates active rule and records event", func(t *testing.T) {
		rule, err := NewRule("  Weekend surcharge ", "", "", mustAdjustment(t, AdjustmentPercentage, "15"), 10)
		require.NoError(t, err)

		assert.Equal(t, "Weekend surcharge", rule.Name)
		assert.True(t, rule.IsActive)
		assert.Equal(t, 1, rule.Version)
		assert.Empty(t, rule.Conditions)

		events := rule.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeRuleCreated, events[0].EventType())
		assert.Equal(t, rule.ID, events[0].AggregateID())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewRule("  ", "", ServiceTypeMoving, mustAdjustment(t, AdjustmentFixed, "10"), 0)
		assert.Equal(t, "INVALID_NAME", errorCode(err))
	})

	t.Run("rejects unknown service type", func(t *testing.T) {
		_, err := NewRule("x", "", "gardening", mustAdjustment(t, AdjustmentFixed, "10"), 0)
		assert.Equal(t, "INVALID_SERVICE_TYPE", errorCode(err))
	})

	t.Run("rejects negative priority", func(t *testing.T) {
		_, err := NewRule("x", "", "", mustAdjustment(t, AdjustmentFixed, "10"), -1)
		assert.Equal(t, "INVALID_PRIORITY", errorCode(err))
	})
}

func TestRule_StatusTransitions(t *testing.T) {
	rule, err := NewRule("Loyalty", "", "", mustAdjustment(t, AdjustmentPercentage, "-5"), 0)
	require.NoError(t, err)
	rule.ClearDomainEvents()

	require.NoError(t, rule.Deactivate())
	assert.False(t, rule.IsActive)
	assert.Equal(t, "INVALID_STATE", errorCode(rule.Deactivate()))

	require.NoError(t, rule.Activate())
	assert.True(t, rule.IsActive)
	assert.Equal(t, "INVALID_STATE", errorCode(rule.Activate()))

	events := rule.GetDomainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, EventTypeRuleDeactivated, events[0].EventType())
	assert.Equal(t, EventTypeRuleActivated, events[1].EventType())
	assert.Equal(t, 3, rule.Version)
}

func TestRule_SetValidity(t *testing.T) {
	rule, err := NewRule("Seasonal", "", "", mustAdjustment(t, AdjustmentFixed, "20"), 0)
	require.NoError(t, err)

	from := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "INVALID_VALIDITY", errorCode(rule.SetValidity(&until, &from)))
	require.NoError(t, rule.SetValidity(&from, &until))

	assert.False(t, rule.IsEffectiveAt(from.Add(-time.Second)))
	assert.True(t, rule.IsEffectiveAt(from))
	assert.True(t, rule.IsEffectiveAt(until.Add(-time.Second)))
	assert.False(t, rule.IsEffectiveAt(until))
}

func TestRule_EditsRecordOneUpdatedEvent(t *testing.T) {
	rule, err := NewRule("Seasonal", "", "", mustAdjustment(t, AdjustmentFixed, "20"), 0)
	require.NoError(t, err)
	rule.ClearDomainEvents()

	require.NoError(t, rule.Update("Seasonal", "", ServiceTypeMoving, mustAdjustment(t, AdjustmentFixed, "30"), 1))
	far, err := NewCondition(FieldDistanceKm, OpGreaterThan, "30")
	require.NoError(t, err)
	require.NoError(t, rule.SetConditions([]Condition{far}))
	from := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, rule.SetValidity(&from, nil))

	events := rule.GetDomainEvents()
	require.Len(t, events, 1)
	updated, ok := events[0].(*RuleUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, ServiceTypeMoving, updated.ServiceType)
	assert.Len(t, updated.Conditions, 1)
	assert.Equal(t, &from, updated.ValidFrom)
	assert.True(t, updated.AdjustmentValue.Equal(decimal.NewFromInt(30)))
}

func TestRule_SetConditionsAloneRecordsUpdate(t *testing.T) {
	rule, err := NewRule("Stairs", "", "", mustAdjustment(t, AdjustmentFixed, "15"), 0)
	require.NoError(t, err)

	cond, err := NewCondition(FieldBedrooms, OpGreaterEqual, "3")
	require.NoError(t, err)
	require.NoError(t, rule.SetConditions([]Condition{cond}))

	events := rule.GetDomainEvents()
	require.Len(t, events, 1, "created event is refreshed, not followed by an update")
	created, ok := events[0].(*RuleCreatedEvent)
	require.True(t, ok)
	assert.Len(t, created.Conditions, 1)

	rule.ClearDomainEvents()
	require.NoError(t, rule.SetValidity(nil, nil))
	require.Len(t, rule.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeRuleUpdated, rule.GetDomainEvents()[0].EventType())
}

func TestRule_Matches(t *testing.T) {
	at := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	ctx := movingContext()

	rule, err := NewRule("Long distance house", "", ServiceTypeMoving, mustAdjustment(t, AdjustmentFixed, "50"), 0)
	require.NoError(t, err)

	far, err := NewCondition(FieldDistanceKm, OpGreaterThan, "30")
	require.NoError(t, err)
	house, err := NewCondition(FieldPropertyType, OpEquals, "house")
	require.NoError(t, err)
	require.NoError(t, rule.SetConditions([]Condition{far, house}))

	assert.True(t, rule.Matches(ctx, at))

	ctx.PropertyType = PropertyTypeApartment
	assert.False(t, rule.Matches(ctx, at), "all conditions must match")

	ctx = movingContext()
	ctx.ServiceType = ServiceTypeCleaning
	assert.False(t, rule.Matches(ctx, at), "service scope must match")

	require.NoError(t, rule.Deactivate())
	assert.False(t, rule.Matches(movingContext(), at))
}

func TestRule_SetConditions_RejectsInvalid(t *testing.T) {
	rule, err := NewRule("Bad", "", "", mustAdjustment(t, AdjustmentFixed, "5"), 0)
	require.NoError(t, err)

	err = rule.SetConditions([]Condition{{Field: "unknown", Operator: OpEquals, Values: []string{"x"}}})
	assert.Equal(t, "INVALID_CONDITION_FIELD", errorCode(err))
	assert.Empty(t, rule.Conditions)
}
