package shared

import "context"

// EventHandler reacts to published domain events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error

	// EventTypes lists the event types the handler is subscribed to by
	// default. An empty list subscribes it to every event.
	EventTypes() []string
}

// EventPublisher delivers domain events to subscribers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler subscriptions
type EventSubscriber interface {
	// Subscribe registers handler for eventTypes, or for handler.EventTypes()
	// when none are given
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is a publisher with a subscriber registry and a lifecycle
type EventBus interface {
	EventPublisher
	EventSubscriber

	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// PublishPending drains the buffered events of each aggregate into publisher.
// A nil publisher drops the events. Draining stops at the first error.
func PublishPending(ctx context.Context, publisher EventPublisher, aggregates ...AggregateRoot) error {
	for _, agg := range aggregates {
		events := agg.PullDomainEvents()
		if publisher == nil || len(events) == 0 {
			continue
		}
		if err := publisher.Publish(ctx, events...); err != nil {
			return err
		}
	}
	return nil
}
