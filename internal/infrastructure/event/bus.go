package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// InMemoryEventBus delivers domain events synchronously to subscribed handlers.
// A failing or panicking handler is logged and does not stop delivery to the
// remaining handlers, and never fails the publishing request.
type InMemoryEventBus struct {
	registry  *handlerRegistry
	logger    *zap.Logger
	running   atomic.Bool
	delivered atomic.Int64
	failed    atomic.Int64
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	b := &InMemoryEventBus{
		registry: newHandlerRegistry(),
		logger:   logger,
	}
	b.running.Store(true)
	return b
}

// Publish hands every event to its handlers in subscription order.
// Events published after Stop are dropped with a warning.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	log := logger.Enrich(ctx, b.logger)
	for _, event := range events {
		if event == nil {
			continue
		}
		if !b.running.Load() {
			log.Warn("Event bus stopped, dropping event",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
			)
			continue
		}
		for _, handler := range b.registry.handlersFor(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.failed.Add(1)
				log.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("aggregate_id", event.AggregateID().String()),
					zap.Error(err),
				)
				continue
			}
			b.delivered.Add(1)
		}
	}
	return nil
}

// PublishPending publishes and clears the pending events of each aggregate
func (b *InMemoryEventBus) PublishPending(ctx context.Context, aggregates ...shared.AggregateRoot) error {
	return shared.PublishPending(ctx, b, aggregates...)
}

// Subscribe registers handler for eventTypes, defaulting to handler.EventTypes()
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.add(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.remove(handler)
}

// Start resumes delivery after Stop
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("Event bus started")
	return nil
}

// Stop stops delivering events
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.logger.Info("Event bus stopped",
		zap.Int64("delivered", b.delivered.Load()),
		zap.Int64("failed", b.failed.Load()),
	)
	return nil
}

// Stats returns the number of successful and failed handler deliveries
func (b *InMemoryEventBus) Stats() (delivered, failed int64) {
	return b.delivered.Load(), b.failed.Load()
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
