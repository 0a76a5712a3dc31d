package configuration

import (
	"time"

	"github.com/quotebook/backend/internal/domain/configuration"
)

// UpsertSettingRequest creates or replaces a setting value
type UpsertSettingRequest struct {
	Value       string `json:"value" binding:"max=4000"`
	ValueType   string `json:"value_type" binding:"omitempty,oneof=string number bool json"`
	Description string `json:"description" binding:"max=500"`
}

// SettingListFilter represents filter options for the settings list
type SettingListFilter struct {
	Prefix   string `form:"prefix"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=200"`
}

// SettingResponse is a setting in API responses. IsDefault marks a built-in
// default that has no stored row.
type SettingResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	ValueType   string    `json:"value_type"`
	Description string    `json:"description"`
	IsDefault   bool      `json:"is_default"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// ToSettingResponse converts a stored setting
func ToSettingResponse(s *configuration.Setting) SettingResponse {
	return SettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		ValueType:   string(s.ValueType),
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt,
	}
}

func defaultResponse(d configuration.Default) SettingResponse {
	return SettingResponse{
		Key:         d.Key,
		Value:       d.Value,
		ValueType:   string(d.ValueType),
		Description: d.Description,
		IsDefault:   true,
	}
}
