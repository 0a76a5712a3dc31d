package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movingContext() Context {
	return Context{
		ServiceType:  ServiceTypeMoving,
		PropertyType: PropertyTypeHouse,
		Frequency:    FrequencyOneTime,
		DistanceKm:   decimal.NewFromInt(40),
		Bedrooms:     3,
		Bathrooms:    2,
		Floors:       2,
		HasElevator:  false,
		ServiceDate:  time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), // Saturday
		Attributes:   `{"piano":true,"stairs":{"flights":3},"access":"Narrow Lane"}`,
	}
}

func TestNewCondition(t *testing.T) {
	tests := []struct {
		name    string
		field   ConditionField
		op      Operator
		values  []string
		wantErr string
	}{
		{"valid eq", FieldPropertyType, OpEquals, []string{"house"}, ""},
		{"valid in", FieldFrequency, OpIn, []string{"weekly", "fortnightly"}, ""},
		{"valid between", FieldDistanceKm, OpBetween, []string{"10", "50"}, ""},
		{"valid attribute gt", "attributes.stairs.flights", OpGreaterThan, []string{"2"}, ""},
		{"unknown field", "color", OpEquals, []string{"red"}, "INVALID_CONDITION_FIELD"},
		{"empty attribute path", "attributes.", OpEquals, []string{"x"}, "INVALID_CONDITION_FIELD"},
		{"unknown operator", FieldBedrooms, "like", []string{"1"}, "INVALID_CONDITION_OPERATOR"},
		{"eq needs one value", FieldPropertyType, OpEquals, []string{"house", "office"}, "INVALID_CONDITION_VALUES"},
		{"in needs values", FieldFrequency, OpIn, nil, "INVALID_CONDITION_VALUES"},
		{"between needs two", FieldDistanceKm, OpBetween, []string{"10"}, "INVALID_CONDITION_VALUES"},
		{"between inverted", FieldDistanceKm, OpBetween, []string{"50", "10"}, "INVALID_CONDITION_VALUES"},
		{"numeric field non numeric value", FieldBedrooms, OpEquals, []string{"three"}, "INVALID_CONDITION_VALUES"},
		{"ordering on text field", FieldPropertyType, OpGreaterThan, []string{"1"}, "INVALID_CONDITION_OPERATOR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCondition(tt.field, tt.op, tt.values...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, errorCode(err), tt.wantErr)
		})
	}
}

func TestCondition_Matches(t *testing.T) {
	ctx := movingContext()

	tests := []struct {
		name   string
		field  ConditionField
		op     Operator
		values []string
		want   bool
	}{
		{"service type eq", FieldServiceType, OpEquals, []string{"moving"}, true},
		{"property type case insensitive", FieldPropertyType, OpEquals, []string{"HOUSE"}, true},
		{"property type neq", FieldPropertyType, OpNotEquals, []string{"house"}, false},
		{"frequency in", FieldFrequency, OpIn, []string{"weekly", "one_time"}, true},
		{"frequency not in", FieldFrequency, OpNotIn, []string{"weekly", "monthly"}, true},
		{"distance gt", FieldDistanceKm, OpGreaterThan, []string{"30"}, true},
		{"distance gt boundary", FieldDistanceKm, OpGreaterThan, []string{"40"}, false},
		{"distance gte boundary", FieldDistanceKm, OpGreaterEqual, []string{"40"}, true},
		{"distance lt", FieldDistanceKm, OpLessThan, []string{"40"}, false},
		{"distance lte", FieldDistanceKm, OpLessEqual, []string{"40"}, true},
		{"distance between inclusive", FieldDistanceKm, OpBetween, []string{"40", "80"}, true},
		{"bedrooms eq numeric format", FieldBedrooms, OpEquals, []string{"3.0"}, true},
		{"no elevator", FieldHasElevator, OpEquals, []string{"false"}, true},
		{"weekend", FieldServiceWeekday, OpIn, []string{"saturday", "sunday"}, true},
		{"attribute bool", "attributes.piano", OpEquals, []string{"true"}, true},
		{"attribute nested number", "attributes.stairs.flights", OpGreaterEqual, []string{"3"}, true},
		{"attribute string", "attributes.access", OpEquals, []string{"narrow lane"}, true},
		{"missing attribute never matches eq", "attributes.pool", OpEquals, []string{"true"}, false},
		{"missing attribute never matches neq", "attributes.pool", OpNotEquals, []string{"true"}, false},
		{"ordering on string attribute", "attributes.access", OpGreaterThan, []string{"1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCondition(tt.field, tt.op, tt.values...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Matches(ctx))
		})
	}
}

func TestCondition_Matches_NoServiceDate(t *testing.T) {
	ctx := movingContext()
	ctx.ServiceDate = time.Time{}

	c, err := NewCondition(FieldServiceWeekday, OpNotIn, "saturday")
	require.NoError(t, err)
	assert.False(t, c.Matches(ctx))
}

func TestContext_Validate(t *testing.T) {
	t.Run("valid context", func(t *testing.T) {
		assert.NoError(t, movingContext().Validate())
	})

	t.Run("invalid service type", func(t *testing.T) {
		ctx := movingContext()
		ctx.ServiceType = "painting"
		assert.Equal(t, "INVALID_SERVICE_TYPE", errorCode(ctx.Validate()))
	})

	t.Run("invalid property type", func(t *testing.T) {
		ctx := movingContext()
		ctx.PropertyType = "castle"
		assert.Equal(t, "INVALID_PROPERTY_TYPE", errorCode(ctx.Validate()))
	})

	t.Run("negative distance", func(t *testing.T) {
		ctx := movingContext()
		ctx.DistanceKm = decimal.NewFromInt(-1)
		assert.Equal(t, "INVALID_DISTANCE", errorCode(ctx.Validate()))
	})

	t.Run("negative rooms", func(t *testing.T) {
		ctx := movingContext()
		ctx.Bedrooms = -1
		assert.Equal(t, "INVALID_ROOM_COUNT", errorCode(ctx.Validate()))
	})

	t.Run("attributes must be an object", func(t *testing.T) {
		ctx := movingContext()
		ctx.Attributes = `[1,2]`
		assert.Equal(t, "INVALID_ATTRIBUTES", errorCode(ctx.Validate()))

		ctx.Attributes = `{broken`
		assert.Equal(t, "INVALID_ATTRIBUTES", errorCode(ctx.Validate()))
	})

	t.Run("normalize fills defaults", func(t *testing.T) {
		ctx := Context{ServiceType: ServiceTypeCleaning, PropertyType: PropertyTypeStudio}.Normalize()
		assert.Equal(t, FrequencyOneTime, ctx.Frequency)
		assert.Equal(t, "{}", ctx.Attributes)
	})
}
