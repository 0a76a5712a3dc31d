package models

import "github.com/quotebook/backend/internal/domain/configuration"

// SettingModel is the persistence model for a configuration Setting.
type SettingModel struct {
	EntityColumns
	Key         string                  `gorm:"type:varchar(100);not null;uniqueIndex"`
	Value       string                  `gorm:"type:text;not null"`
	ValueType   configuration.ValueType `gorm:"type:varchar(20);not null"`
	Description string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SettingModel) TableName() string {
	return "settings"
}

// ToDomain converts the persistence model to a domain Setting
func (m *SettingModel) ToDomain() *configuration.Setting {
	return &configuration.Setting{
		BaseEntity:  m.Entity(),
		Key:         m.Key,
		Value:       m.Value,
		ValueType:   m.ValueType,
		Description: m.Description,
	}
}

// SettingModelFromDomain creates a persistence model from a domain Setting
func SettingModelFromDomain(s *configuration.Setting) *SettingModel {
	m := &SettingModel{
		Key:         s.Key,
		Value:       s.Value,
		ValueType:   s.ValueType,
		Description: s.Description,
	}
	m.setEntity(s.BaseEntity)
	return m
}
