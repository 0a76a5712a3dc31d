package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Quote", uuid.New()),
		Data:            "test data",
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

type testAggregate struct {
	shared.BaseAggregateRoot
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	accepted := newTestHandler("QuoteAccepted")
	all := newTestHandler()
	bus.Subscribe(accepted)
	bus.Subscribe(all)

	acceptedEvent := newTestEvent("QuoteAccepted")
	rejectedEvent := newTestEvent("QuoteRejected")
	require.NoError(t, bus.Publish(context.Background(), acceptedEvent, rejectedEvent))

	assert.Equal(t, []shared.DomainEvent{acceptedEvent}, accepted.getHandled())
	assert.Equal(t, []shared.DomainEvent{acceptedEvent, rejectedEvent}, all.getHandled())

	delivered, failed := bus.Stats()
	assert.Equal(t, int64(3), delivered)
	assert.Zero(t, failed)
}

func TestInMemoryEventBus_SubscribeTwiceDeliversOnce(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("QuoteRequested")

	bus.Subscribe(handler)
	bus.Subscribe(handler, "QuoteRequested")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("QuoteRequested")))
	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_HandlerFailureDoesNotStopDelivery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("BookingCreated")
	failing.err = errors.New("template missing")
	panicking := newTestHandler("BookingCreated")
	panicking.panicWith = "boom"
	healthy := newTestHandler("BookingCreated")

	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("BookingCreated"))
	require.NoError(t, err)

	assert.Len(t, healthy.getHandled(), 1)
	assert.Equal(t, 2, logs.FilterMessage("Event handler failed").Len())
	_, failed := bus.Stats()
	assert.Equal(t, int64(2), failed)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("QuoteExpired")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("QuoteExpired")))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBus_StopDropsEvents(t *testing.T) {
	ctx := context.Background()
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("QuoteExpired")
	bus.Subscribe(handler)

	require.NoError(t, bus.Stop(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("QuoteExpired")))
	assert.Empty(t, handler.getHandled())

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("QuoteExpired")))
	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_PublishPending(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler()
	bus.Subscribe(handler)

	agg := &testAggregate{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	agg.AddDomainEvent(newTestEvent("QuoteRequested"))
	agg.AddDomainEvent(newTestEvent("QuoteRecalculated"))

	require.NoError(t, bus.PublishPending(context.Background(), agg))
	assert.Len(t, handler.getHandled(), 2)
	assert.Empty(t, agg.GetDomainEvents())
}
