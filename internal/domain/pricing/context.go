package pricing

import (
	"strings"
	"time"

	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// MaxDistanceKm bounds the distance a quote may be priced for
const MaxDistanceKm = 10000

var maxDistance = decimal.NewFromInt(MaxDistanceKm)

// Context carries the facts of a service request that rules are evaluated against
type Context struct {
	ServiceType  ServiceType
	PropertyType PropertyType
	Frequency    Frequency
	DistanceKm   decimal.Decimal
	Bedrooms     int
	Bathrooms    int
	Floors       int
	HasElevator  bool
	ServiceDate  time.Time
	// Attributes is a free-form JSON object, queried by attributes.<path> conditions
	Attributes string
}

// Normalize fills defaults for optional fields
func (c Context) Normalize() Context {
	if c.Frequency == "" {
		c.Frequency = FrequencyOneTime
	}
	if attrs := strings.TrimSpace(c.Attributes); attrs == "" || attrs == "null" {
		c.Attributes = "{}"
	}
	return c
}

// EvaluationTime is the instant rule validity windows are checked at: the
// service date when one is given, otherwise now.
func (c Context) EvaluationTime(now time.Time) time.Time {
	if c.ServiceDate.IsZero() {
		return now
	}
	return c.ServiceDate
}

// Validate checks the context is complete enough to price
func (c Context) Validate() error {
	if !c.ServiceType.IsValid() {
		return shared.NewDomainError("INVALID_SERVICE_TYPE", "Service type must be moving or cleaning")
	}
	if !c.PropertyType.IsValid() {
		return shared.NewDomainError("INVALID_PROPERTY_TYPE", "Property type is not supported")
	}
	if c.Frequency != "" && !c.Frequency.IsValid() {
		return shared.NewDomainError("INVALID_FREQUENCY", "Frequency is not supported")
	}
	if c.DistanceKm.IsNegative() {
		return shared.NewDomainError("INVALID_DISTANCE", "Distance cannot be negative")
	}
	if c.DistanceKm.GreaterThan(maxDistance) {
		return shared.NewDomainError("INVALID_DISTANCE", "Distance cannot exceed 10000 km")
	}
	if c.Bedrooms < 0 || c.Bathrooms < 0 || c.Floors < 0 {
		return shared.NewDomainError("INVALID_ROOM_COUNT", "Room and floor counts cannot be negative")
	}
	if c.Attributes != "" && (!gjson.Valid(c.Attributes) || !gjson.Parse(c.Attributes).IsObject()) {
		return shared.NewDomainError("INVALID_ATTRIBUTES", "Attributes must be a valid JSON object")
	}
	return nil
}

// fieldValue is the resolved value of a condition field
type fieldValue struct {
	text    string
	number  decimal.Decimal
	numeric bool
}

// lookup resolves a condition field against the context.
// ok is false when the field has no value (missing attribute).
func (c Context) lookup(field ConditionField) (fieldValue, bool) {
	switch field {
	case FieldServiceType:
		return fieldValue{text: string(c.ServiceType)}, true
	case FieldPropertyType:
		return fieldValue{text: string(c.PropertyType)}, true
	case FieldFrequency:
		return fieldValue{text: string(c.Normalize().Frequency)}, true
	case FieldDistanceKm:
		return numberValue(c.DistanceKm), true
	case FieldBedrooms:
		return numberValue(decimal.NewFromInt(int64(c.Bedrooms))), true
	case FieldBathrooms:
		return numberValue(decimal.NewFromInt(int64(c.Bathrooms))), true
	case FieldFloors:
		return numberValue(decimal.NewFromInt(int64(c.Floors))), true
	case FieldHasElevator:
		if c.HasElevator {
			return fieldValue{text: "true"}, true
		}
		return fieldValue{text: "false"}, true
	case FieldServiceWeekday:
		if c.ServiceDate.IsZero() {
			return fieldValue{}, false
		}
		return fieldValue{text: strings.ToLower(c.ServiceDate.Weekday().String())}, true
	}

	path, isAttr := field.AttributePath()
	if !isAttr || c.Attributes == "" {
		return fieldValue{}, false
	}
	res := gjson.Get(c.Attributes, path)
	if !res.Exists() {
		return fieldValue{}, false
	}
	switch res.Type {
	case gjson.Number:
		d, err := decimal.NewFromString(res.Raw)
		if err != nil {
			return fieldValue{}, false
		}
		return numberValue(d), true
	case gjson.True, gjson.False:
		return fieldValue{text: res.String()}, true
	default:
		return fieldValue{text: strings.ToLower(res.String())}, true
	}
}

func numberValue(d decimal.Decimal) fieldValue {
	return fieldValue{text: d.String(), number: d, numeric: true}
}
