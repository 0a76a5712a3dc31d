package configuration

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ValueType is the declared type of a setting value
type ValueType string

const (
	ValueTypeString ValueType = "string"
	ValueTypeNumber ValueType = "number"
	ValueTypeBool   ValueType = "bool"
	ValueTypeJSON   ValueType = "json"
)

// IsValid reports whether the value type is known
func (v ValueType) IsValid() bool {
	switch v {
	case ValueTypeString, ValueTypeNumber, ValueTypeBool, ValueTypeJSON:
		return true
	}
	return false
}

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z0-9_]+)*$`)

// Setting is an admin-editable configuration entry
type Setting struct {
	shared.BaseEntity
	Key         string
	Value       string
	ValueType   ValueType
	Description string
}

// NewSetting creates a new setting after validating the key and value
func NewSetting(key, value string, valueType ValueType, description string) (*Setting, error) {
	key = strings.TrimSpace(key)
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if !valueType.IsValid() {
		return nil, shared.NewDomainError("INVALID_VALUE_TYPE", "Value type must be string, number, bool or json")
	}
	if err := validateValue(value, valueType); err != nil {
		return nil, err
	}

	return &Setting{
		BaseEntity:  shared.NewBaseEntity(),
		Key:         key,
		Value:       strings.TrimSpace(value),
		ValueType:   valueType,
		Description: description,
	}, nil
}

// Update replaces the value, value type and description
func (s *Setting) Update(value string, valueType ValueType, description string) error {
	if !valueType.IsValid() {
		return shared.NewDomainError("INVALID_VALUE_TYPE", "Value type must be string, number, bool or json")
	}
	if err := validateValue(value, valueType); err != nil {
		return err
	}

	s.Value = strings.TrimSpace(value)
	s.ValueType = valueType
	s.Description = description
	s.UpdatedAt = time.Now()

	return nil
}

// Decimal returns the value as a decimal
func (s *Setting) Decimal() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s.Value)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_SETTING_VALUE", "Setting "+s.Key+" is not numeric")
	}
	return d, nil
}

// Int returns the value as an integer
func (s *Setting) Int() (int, error) {
	n, err := strconv.Atoi(s.Value)
	if err != nil {
		return 0, shared.NewDomainError("INVALID_SETTING_VALUE", "Setting "+s.Key+" is not an integer")
	}
	return n, nil
}

// Bool returns the value as a boolean
func (s *Setting) Bool() (bool, error) {
	b, err := strconv.ParseBool(s.Value)
	if err != nil {
		return false, shared.NewDomainError("INVALID_SETTING_VALUE", "Setting "+s.Key+" is not a boolean")
	}
	return b, nil
}

// ValidateKey checks a setting key is a lowercase dotted identifier
func ValidateKey(key string) error {
	if key == "" {
		return shared.NewDomainError("INVALID_KEY", "Setting key cannot be empty")
	}
	if len(key) > 100 {
		return shared.NewDomainError("INVALID_KEY", "Setting key cannot exceed 100 characters")
	}
	if !keyPattern.MatchString(key) {
		return shared.NewDomainError("INVALID_KEY", "Setting key must be lowercase dotted identifiers")
	}
	return nil
}

func validateValue(value string, valueType ValueType) error {
	value = strings.TrimSpace(value)
	switch valueType {
	case ValueTypeNumber:
		if _, err := decimal.NewFromString(value); err != nil {
			return shared.NewDomainError("INVALID_SETTING_VALUE", "Value must be a number")
		}
	case ValueTypeBool:
		if _, err := strconv.ParseBool(value); err != nil {
			return shared.NewDomainError("INVALID_SETTING_VALUE", "Value must be true or false")
		}
	case ValueTypeJSON:
		if !json.Valid([]byte(value)) {
			return shared.NewDomainError("INVALID_SETTING_VALUE", "Value must be valid JSON")
		}
	}
	return nil
}
