package models

import (
	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/document"
)

// DocumentModel is the persistence model for uploaded document metadata.
type DocumentModel struct {
	EntityColumns
	OwnerType   document.OwnerType `gorm:"type:varchar(20);not null;index:idx_documents_owner"`
	OwnerID     uuid.UUID          `gorm:"type:uuid;not null;index:idx_documents_owner"`
	Filename    string             `gorm:"type:varchar(255);not null"`
	ContentType string             `gorm:"type:varchar(100);not null"`
	Size        int64              `gorm:"not null"`
	StorageKey  string             `gorm:"type:varchar(500);not null;uniqueIndex"`
	Checksum    string             `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// ToDomain converts the persistence model to a domain Document
func (m *DocumentModel) ToDomain() *document.Document {
	return &document.Document{
		BaseEntity:  m.Entity(),
		OwnerType:   m.OwnerType,
		OwnerID:     m.OwnerID,
		Filename:    m.Filename,
		ContentType: m.ContentType,
		Size:        m.Size,
		StorageKey:  m.StorageKey,
		Checksum:    m.Checksum,
	}
}

// DocumentModelFromDomain creates a persistence model from a domain Document
func DocumentModelFromDomain(d *document.Document) *DocumentModel {
	m := &DocumentModel{
		OwnerType:   d.OwnerType,
		OwnerID:     d.OwnerID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Size:        d.Size,
		StorageKey:  d.StorageKey,
		Checksum:    d.Checksum,
	}
	m.setEntity(d.BaseEntity)
	return m
}
