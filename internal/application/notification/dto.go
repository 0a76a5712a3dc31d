package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/notification"
)

// MarkFailedRequest records a failed delivery
type MarkFailedRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=1000"`
}

// NotificationListFilter represents filter options for the notification list
type NotificationListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=queued sent failed"`
	Channel    string `form:"channel" binding:"omitempty,oneof=email sms whatsapp"`
	Template   string `form:"template"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID            uuid.UUID  `json:"id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	Recipient     string     `json:"recipient"`
	Channel       string     `json:"channel"`
	Template      string     `json:"template"`
	Subject       string     `json:"subject"`
	Body          string     `json:"body"`
	Status        string     `json:"status"`
	Attempts      int        `json:"attempts"`
	LastError     string     `json:"last_error,omitempty"`
	SentAt        *time.Time `json:"sent_at,omitempty"`
	SourceEventID uuid.UUID  `json:"source_event_id"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToNotificationResponse converts a domain notification
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		CustomerID:    n.CustomerID,
		Recipient:     n.Recipient,
		Channel:       string(n.Channel),
		Template:      n.Template,
		Subject:       n.Subject,
		Body:          n.Body,
		Status:        string(n.Status),
		Attempts:      n.Attempts,
		LastError:     n.LastError,
		SentAt:        n.SentAt,
		SourceEventID: n.SourceEventID,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
	}
}

// ToNotificationResponses converts a slice of notifications
func ToNotificationResponses(items []notification.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, len(items))
	for i := range items {
		responses[i] = ToNotificationResponse(&items[i])
	}
	return responses
}
