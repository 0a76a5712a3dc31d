package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/shared"
)

// EntityColumns are the id and audit columns of every table. Timestamps are
// written as the domain set them; gorm does not stamp them on update.
type EntityColumns struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

// Entity rebuilds the domain entity header
func (m *EntityColumns) Entity() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (m *EntityColumns) setEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateColumns add the optimistic lock version compared on save
type AggregateColumns struct {
	EntityColumns
	Version int `gorm:"not null;default:1"`
}

// Aggregate rebuilds the domain aggregate header with no pending events
func (m *AggregateColumns) Aggregate() shared.BaseAggregateRoot {
	return shared.RestoreAggregateRoot(m.Entity(), m.Version)
}

func (m *AggregateColumns) setAggregate(a shared.BaseAggregateRoot) {
	m.setEntity(a.BaseEntity)
	m.Version = a.Version
}
