package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/quotebook/backend/internal/domain/shared"
)

// RecordingHandler is a shared.EventHandler that keeps every event it receives.
type RecordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingHandler creates a handler subscribed to eventTypes.
func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{eventTypes: eventTypes}
}

// EventTypes returns the subscribed event types.
func (h *RecordingHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records event and returns the configured error.
func (h *RecordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of the recorded events.
func (h *RecordingHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.handled)
}

// Types returns the types of the recorded events in arrival order.
func (h *RecordingHandler) Types() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, len(h.handled))
	for i, e := range h.handled {
		types[i] = e.EventType()
	}
	return types
}

// Count returns the number of recorded events.
func (h *RecordingHandler) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// SetError makes subsequent Handle calls fail with err.
func (h *RecordingHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// TestEvent is a minimal domain event.
type TestEvent struct {
	shared.BaseDomainEvent
}

// NewTestEvent creates an event of eventType on a fresh aggregate.
func NewTestEvent(eventType string) *TestEvent {
	return &TestEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", NewTestUUID(eventType))}
}
