package pricing

import (
	"strings"

	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ConditionField names a fact of the pricing context
type ConditionField string

const (
	FieldServiceType    ConditionField = "service_type"
	FieldPropertyType   ConditionField = "property_type"
	FieldFrequency      ConditionField = "frequency"
	FieldDistanceKm     ConditionField = "distance_km"
	FieldBedrooms       ConditionField = "bedrooms"
	FieldBathrooms      ConditionField = "bathrooms"
	FieldFloors         ConditionField = "floors"
	FieldHasElevator    ConditionField = "has_elevator"
	FieldServiceWeekday ConditionField = "service_weekday"

	attributePrefix = "attributes."
)

// AttributePath returns the gjson path of an attributes.<path> field
func (f ConditionField) AttributePath() (string, bool) {
	s := string(f)
	if !strings.HasPrefix(s, attributePrefix) || len(s) == len(attributePrefix) {
		return "", false
	}
	return s[len(attributePrefix):], true
}

func (f ConditionField) isNumeric() bool {
	switch f {
	case FieldDistanceKm, FieldBedrooms, FieldBathrooms, FieldFloors:
		return true
	}
	return false
}

// IsValid reports whether the field is a known context field or an attribute path
func (f ConditionField) IsValid() bool {
	switch f {
	case FieldServiceType, FieldPropertyType, FieldFrequency, FieldDistanceKm, FieldBedrooms,
		FieldBathrooms, FieldFloors, FieldHasElevator, FieldServiceWeekday:
		return true
	}
	_, ok := f.AttributePath()
	return ok
}

// Operator compares a context value against condition values
type Operator string

const (
	OpEquals       Operator = "eq"
	OpNotEquals    Operator = "neq"
	OpIn           Operator = "in"
	OpNotIn        Operator = "not_in"
	OpGreaterThan  Operator = "gt"
	OpGreaterEqual Operator = "gte"
	OpLessThan     Operator = "lt"
	OpLessEqual    Operator = "lte"
	OpBetween      Operator = "between"
)

func (o Operator) isOrdering() bool {
	switch o {
	case OpGreaterThan, OpGreaterEqual, OpLessThan, OpLessEqual, OpBetween:
		return true
	}
	return false
}

// IsValid reports whether the operator is known
func (o Operator) IsValid() bool {
	switch o {
	case OpEquals, OpNotEquals, OpIn, OpNotIn:
		return true
	}
	return o.isOrdering()
}

// Condition is a single predicate over the pricing context
type Condition struct {
	Field    ConditionField `json:"field"`
	Operator Operator       `json:"operator"`
	Values   []string       `json:"values"`
}

// NewCondition creates a validated condition. Values are trimmed and lowercased.
func NewCondition(field ConditionField, op Operator, values ...string) (Condition, error) {
	c := Condition{Field: field, Operator: op, Values: make([]string, 0, len(values))}
	for _, v := range values {
		c.Values = append(c.Values, strings.ToLower(strings.TrimSpace(v)))
	}
	if err := c.Validate(); err != nil {
		return Condition{}, err
	}
	return c, nil
}

// Validate checks field, operator and value arity
func (c Condition) Validate() error {
	if !c.Field.IsValid() {
		return shared.NewDomainError("INVALID_CONDITION_FIELD", "Unknown condition field: "+string(c.Field))
	}
	if !c.Operator.IsValid() {
		return shared.NewDomainError("INVALID_CONDITION_OPERATOR", "Unknown condition operator: "+string(c.Operator))
	}

	switch c.Operator {
	case OpIn, OpNotIn:
		if len(c.Values) == 0 {
			return shared.NewDomainError("INVALID_CONDITION_VALUES", "Operator "+string(c.Operator)+" needs at least one value")
		}
	case OpBetween:
		if len(c.Values) != 2 {
			return shared.NewDomainError("INVALID_CONDITION_VALUES", "Operator between needs exactly two values")
		}
	default:
		if len(c.Values) != 1 {
			return shared.NewDomainError("INVALID_CONDITION_VALUES", "Operator "+string(c.Operator)+" needs exactly one value")
		}
	}

	if c.Operator.isOrdering() || c.Field.isNumeric() {
		nums, err := c.numbers()
		if err != nil {
			return err
		}
		if c.Operator == OpBetween && nums[0].GreaterThan(nums[1]) {
			return shared.NewDomainError("INVALID_CONDITION_VALUES", "Between lower bound exceeds upper bound")
		}
	}
	if c.Operator.isOrdering() {
		_, isAttr := c.Field.AttributePath()
		if !c.Field.isNumeric() && !isAttr {
			return shared.NewDomainError("INVALID_CONDITION_OPERATOR", "Operator "+string(c.Operator)+" requires a numeric field")
		}
	}
	return nil
}

func (c Condition) numbers() ([]decimal.Decimal, error) {
	nums := make([]decimal.Decimal, 0, len(c.Values))
	for _, v := range c.Values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_CONDITION_VALUES", "Value is not numeric: "+v)
		}
		nums = append(nums, d)
	}
	return nums, nil
}

// Matches evaluates the condition. A missing attribute never matches.
func (c Condition) Matches(ctx Context) bool {
	val, ok := ctx.lookup(c.Field)
	if !ok {
		return false
	}

	if c.Operator.isOrdering() {
		if !val.numeric {
			return false
		}
		nums, err := c.numbers()
		if err != nil {
			return false
		}
		switch c.Operator {
		case OpGreaterThan:
			return val.number.GreaterThan(nums[0])
		case OpGreaterEqual:
			return val.number.GreaterThanOrEqual(nums[0])
		case OpLessThan:
			return val.number.LessThan(nums[0])
		case OpLessEqual:
			return val.number.LessThanOrEqual(nums[0])
		case OpBetween:
			return val.number.GreaterThanOrEqual(nums[0]) && val.number.LessThanOrEqual(nums[1])
		}
		return false
	}

	found := false
	for _, v := range c.Values {
		if val.equals(v) {
			found = true
			break
		}
	}
	switch c.Operator {
	case OpEquals, OpIn:
		return found
	case OpNotEquals, OpNotIn:
		return !found
	}
	return false
}

func (v fieldValue) equals(s string) bool {
	if v.numeric {
		d, err := decimal.NewFromString(s)
		return err == nil && v.number.Equal(d)
	}
	return strings.EqualFold(v.text, s)
}
