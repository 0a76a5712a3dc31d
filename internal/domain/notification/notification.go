package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/shared"
)

// Channel is the delivery channel of a notification
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// IsValid reports whether the channel is known
func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

// Status is the delivery state of a notification
type Status string

const (
	StatusQueued Status = "queued"
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// IsValid reports whether the status is known
func (s Status) IsValid() bool {
	return s == StatusQueued || s == StatusSent || s == StatusFailed
}

// MaxAttempts is how many failed deliveries are allowed before requeue is refused
const MaxAttempts = 5

// Notification is an outbound message queued for an external dispatcher
type Notification struct {
	shared.BaseEntity
	CustomerID    uuid.UUID
	Recipient     string
	Channel       Channel
	Template      string
	Subject       string
	Body          string
	Status        Status
	Attempts      int
	LastError     string
	SentAt        *time.Time
	SourceEventID uuid.UUID
}

// NewNotification creates a queued notification
func NewNotification(customerID uuid.UUID, recipient string, channel Channel, template, subject, body string, sourceEventID uuid.UUID) (*Notification, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Recipient cannot be empty")
	}
	if !channel.IsValid() {
		return nil, shared.NewDomainError("INVALID_CHANNEL", "Channel must be email, sms or whatsapp")
	}
	if strings.TrimSpace(body) == "" {
		return nil, shared.NewDomainError("INVALID_BODY", "Notification body cannot be empty")
	}
	if channel == ChannelEmail && strings.TrimSpace(subject) == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Email notifications need a subject")
	}

	return &Notification{
		BaseEntity:    shared.NewBaseEntity(),
		CustomerID:    customerID,
		Recipient:     recipient,
		Channel:       channel,
		Template:      template,
		Subject:       subject,
		Body:          body,
		Status:        StatusQueued,
		SourceEventID: sourceEventID,
	}, nil
}

// MarkSent records a successful delivery
func (n *Notification) MarkSent(now time.Time) error {
	if n.Status != StatusQueued {
		return shared.NewDomainError("INVALID_STATE", "Only queued notifications can be marked sent")
	}

	n.Status = StatusSent
	n.Attempts++
	n.LastError = ""
	n.SentAt = &now
	n.UpdatedAt = now

	return nil
}

// MarkFailed records a failed delivery attempt
func (n *Notification) MarkFailed(reason string, now time.Time) error {
	if n.Status != StatusQueued {
		return shared.NewDomainError("INVALID_STATE", "Only queued notifications can be marked failed")
	}

	n.Status = StatusFailed
	n.Attempts++
	n.LastError = strings.TrimSpace(reason)
	n.UpdatedAt = now

	return nil
}

// Requeue puts a failed notification back in the queue
func (n *Notification) Requeue(now time.Time) error {
	if n.Status != StatusFailed {
		return shared.NewDomainError("INVALID_STATE", "Only failed notifications can be requeued")
	}
	if n.Attempts >= MaxAttempts {
		return shared.NewDomainError("MAX_ATTEMPTS_REACHED", "Notification has reached the maximum delivery attempts")
	}

	n.Status = StatusQueued
	n.UpdatedAt = now

	return nil
}
