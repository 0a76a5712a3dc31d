package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/booking"
	"github.com/quotebook/backend/internal/domain/customer"
	"github.com/quotebook/backend/internal/domain/notification"
	"github.com/quotebook/backend/internal/domain/quote"
	"github.com/quotebook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// QueueRecorder counts queued notifications
type QueueRecorder interface {
	NotificationQueued(channel, template string)
}

// EventHandler turns quote and booking events into queued notifications
// for the customer's preferred channel.
type EventHandler struct {
	notificationRepo notification.NotificationRepository
	customerRepo     customer.CustomerRepository
	renderer         *Renderer
	recorder         QueueRecorder
	logger           *zap.Logger
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(
	notificationRepo notification.NotificationRepository,
	customerRepo customer.CustomerRepository,
	renderer *Renderer,
	logger *zap.Logger,
) *EventHandler {
	return &EventHandler{
		notificationRepo: notificationRepo,
		customerRepo:     customerRepo,
		renderer:         renderer,
		logger:           logger,
	}
}

// WithRecorder sets the metrics recorder
func (h *EventHandler) WithRecorder(recorder QueueRecorder) *EventHandler {
	h.recorder = recorder
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *EventHandler) EventTypes() []string {
	return []string{
		quote.EventTypeQuoteRequested,
		quote.EventTypeQuoteRecalculated,
		quote.EventTypeQuoteAccepted,
		quote.EventTypeQuoteRejected,
		quote.EventTypeQuoteExpired,
		booking.EventTypeBookingCreated,
		booking.EventTypeBookingConfirmed,
		booking.EventTypeBookingCompleted,
		booking.EventTypeBookingCancelled,
		booking.EventTypeBookingRescheduled,
		booking.EventTypeBookingPaymentUpdated,
	}
}

// Handle renders and queues the notification for an event
func (h *EventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	templateName, customerID, data, err := messageFor(event)
	if err != nil {
		h.logger.Error("unexpected event type",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return err
	}

	exists, err := h.notificationRepo.ExistsForEvent(ctx, event.EventID(), templateName)
	if err != nil {
		return err
	}
	if exists {
		h.logger.Debug("Notification already queued for event",
			zap.String("event_id", event.EventID().String()),
			zap.String("template", templateName),
		)
		return nil
	}

	c, err := h.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.logger.Warn("Skipping notification for unknown customer",
				zap.String("event_id", event.EventID().String()),
				zap.String("customer_id", customerID.String()),
			)
			return nil
		}
		return err
	}
	data.CustomerName = c.Name

	subject, body, err := h.renderer.Render(templateName, data)
	if err != nil {
		return err
	}

	channel := notification.Channel(c.PreferredChannel)
	if c.Phone == "" {
		channel = notification.ChannelEmail
	}
	n, err := notification.NewNotification(c.ID, c.Recipient(), channel, templateName, subject, body, event.EventID())
	if err != nil {
		return err
	}
	if err := h.notificationRepo.Save(ctx, n); err != nil {
		return err
	}
	if h.recorder != nil {
		h.recorder.NotificationQueued(string(n.Channel), templateName)
	}

	h.logger.Info("Notification queued",
		zap.String("notification_id", n.ID.String()),
		zap.String("event_id", event.EventID().String()),
		zap.String("template", templateName),
		zap.String("channel", string(n.Channel)),
	)
	return nil
}

func messageFor(event shared.DomainEvent) (string, uuid.UUID, MessageData, error) {
	switch e := event.(type) {
	case *quote.QuoteRequestedEvent:
		return TemplateQuoteRequested, e.CustomerID, MessageData{
			Number:      e.QuoteNumber,
			ServiceType: string(e.ServiceType),
			Amount:      e.FinalPrice,
			Currency:    e.Currency,
			ExpiresAt:   e.ExpiresAt,
		}, nil
	case *quote.QuoteRecalculatedEvent:
		return TemplateQuoteRecalculated, e.CustomerID, MessageData{
			Number:        e.QuoteNumber,
			Amount:        e.FinalPrice,
			PreviousPrice: e.PreviousPrice,
			Currency:      e.Currency,
		}, nil
	case *quote.QuoteStatusEvent:
		name, ok := quoteTemplates[e.EventType()]
		if !ok {
			break
		}
		return name, e.CustomerID, MessageData{
			Number:   e.QuoteNumber,
			Amount:   e.FinalPrice,
			Currency: e.Currency,
			Reason:   e.Reason,
		}, nil
	case *booking.BookingCreatedEvent:
		return TemplateBookingCreated, e.CustomerID, MessageData{
			Number:      e.BookingNumber,
			ServiceType: string(e.ServiceType),
			Amount:      e.TotalAmount,
			Deposit:     e.DepositAmount,
			Currency:    e.Currency,
			ScheduledAt: e.ScheduledAt,
		}, nil
	case *booking.BookingStatusEvent:
		name, ok := bookingTemplates[e.EventType()]
		if !ok {
			break
		}
		return name, e.CustomerID, MessageData{
			Number:      e.BookingNumber,
			ScheduledAt: e.ScheduledAt,
			Reason:      e.Reason,
		}, nil
	case *booking.BookingRescheduledEvent:
		return TemplateBookingMoved, e.CustomerID, MessageData{
			Number:       e.BookingNumber,
			ScheduledAt:  e.ScheduledAt,
			PreviousDate: e.PreviousDate,
		}, nil
	case *booking.BookingPaymentUpdatedEvent:
		return TemplatePaymentUpdated, e.CustomerID, MessageData{
			Number:        e.BookingNumber,
			PaymentStatus: string(e.PaymentStatus),
			BalanceDue:    e.BalanceDue,
			Currency:      e.Currency,
		}, nil
	}
	return "", uuid.Nil, MessageData{}, fmt.Errorf("no notification template for %s (%T)", event.EventType(), event)
}

var quoteTemplates = map[string]string{
	quote.EventTypeQuoteAccepted: TemplateQuoteAccepted,
	quote.EventTypeQuoteRejected: TemplateQuoteRejected,
	quote.EventTypeQuoteExpired:  TemplateQuoteExpired,
}

var bookingTemplates = map[string]string{
	booking.EventTypeBookingConfirmed: TemplateBookingConfirmed,
	booking.EventTypeBookingCompleted: TemplateBookingCompleted,
	booking.EventTypeBookingCancelled: TemplateBookingCancelled,
}
