package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingHandler(t *testing.T) {
	h := NewRecordingHandler("QuoteRequested", "QuoteAccepted")
	assert.Equal(t, []string{"QuoteRequested", "QuoteAccepted"}, h.EventTypes())

	first := NewTestEvent("QuoteRequested")
	require.NoError(t, h.Handle(context.Background(), first))
	require.NoError(t, h.Handle(context.Background(), NewTestEvent("QuoteAccepted")))

	assert.Equal(t, 2, h.Count())
	assert.Equal(t, []string{"QuoteRequested", "QuoteAccepted"}, h.Types())
	assert.Same(t, first, h.Handled()[0])

	h.SetError(assert.AnError)
	assert.ErrorIs(t, h.Handle(context.Background(), NewTestEvent("QuoteAccepted")), assert.AnError)
	assert.Equal(t, 3, h.Count())
}

func TestNewTestEvent(t *testing.T) {
	a := NewTestEvent("BookingCreated")
	b := NewTestEvent("BookingCreated")

	assert.Equal(t, "BookingCreated", a.EventType())
	assert.Equal(t, "TestAggregate", a.AggregateType())
	assert.NotEqual(t, a.EventID(), b.EventID())
	assert.Equal(t, a.AggregateID(), b.AggregateID())
}
