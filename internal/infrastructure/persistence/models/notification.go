package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for a queued Notification.
// (source_event_id, template) is unique so a redelivered event cannot queue twice.
type NotificationModel struct {
	EntityColumns
	CustomerID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	Recipient     string               `gorm:"type:varchar(200);not null"`
	Channel       notification.Channel `gorm:"type:varchar(20);not null"`
	Template      string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_notifications_event_template"`
	Subject       string               `gorm:"type:varchar(300)"`
	Body          string               `gorm:"type:text;not null"`
	Status        notification.Status  `gorm:"type:varchar(20);not null;index"`
	Attempts      int                  `gorm:"not null;default:0"`
	LastError     string               `gorm:"type:text"`
	SentAt        *time.Time
	SourceEventID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_notifications_event_template"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity:    m.Entity(),
		CustomerID:    m.CustomerID,
		Recipient:     m.Recipient,
		Channel:       m.Channel,
		Template:      m.Template,
		Subject:       m.Subject,
		Body:          m.Body,
		Status:        m.Status,
		Attempts:      m.Attempts,
		LastError:     m.LastError,
		SentAt:        m.SentAt,
		SourceEventID: m.SourceEventID,
	}
}

// NotificationModelFromDomain creates a persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{
		CustomerID:    n.CustomerID,
		Recipient:     n.Recipient,
		Channel:       n.Channel,
		Template:      n.Template,
		Subject:       n.Subject,
		Body:          n.Body,
		Status:        n.Status,
		Attempts:      n.Attempts,
		LastError:     n.LastError,
		SentAt:        n.SentAt,
		SourceEventID: n.SourceEventID,
	}
	m.setEntity(n.BaseEntity)
	return m
}
