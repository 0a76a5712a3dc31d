package event

import (
	"context"
	"sync/atomic"

	"github.com/quotebook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyStats counts what an IdempotentHandler did with its deliveries
type IdempotencyStats struct {
	Processed  int64 `json:"processed"`
	Duplicates int64 `json:"duplicates"`
	Failed     int64 `json:"failed"`
}

// IdempotentHandler wraps an EventHandler so that each event id is handled
// once per key prefix. A failed delivery releases its key so that a retry
// of the same event is processed again.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	prefix  string
	logger  *zap.Logger

	processed  atomic.Int64
	duplicates atomic.Int64
	failed     atomic.Int64
}

// IdempotentHandlerOption configures an IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig sets TTL and enablement
func WithIdempotencyConfig(config shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.config = config
	}
}

// WithKeyPrefix scopes processed keys, so two handlers of the same event do not collide
func WithKeyPrefix(prefix string) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.prefix = prefix
	}
}

// NewIdempotentHandler creates a new idempotent handler wrapper
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger, opts ...IdempotentHandlerOption) *IdempotentHandler {
	h := &IdempotentHandler{
		handler: handler,
		store:   store,
		config:  shared.DefaultIdempotencyConfig(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle processes event unless its key was already marked.
// A store failure does not drop the event; it is processed without the check.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, event)
	}

	key := h.key(event)
	fields := []zap.Field{
		zap.String("idempotency_key", key),
		zap.String("event_type", event.EventType()),
	}

	isNew, err := h.store.MarkProcessed(ctx, key, h.config.TTL)
	marked := err == nil
	switch {
	case err != nil:
		h.logger.Warn("Idempotency check failed, processing anyway", append(fields, zap.Error(err))...)
	case !isNew:
		h.duplicates.Add(1)
		h.logger.Debug("Duplicate event skipped", fields...)
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		h.failed.Add(1)
		if marked {
			if releaseErr := h.store.Release(ctx, key); releaseErr != nil {
				h.logger.Warn("Failed to release idempotency key", append(fields, zap.Error(releaseErr))...)
			}
		}
		return err
	}

	h.processed.Add(1)
	return nil
}

// Stats returns a snapshot of the handler counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		Processed:  h.processed.Load(),
		Duplicates: h.duplicates.Load(),
		Failed:     h.failed.Load(),
	}
}

func (h *IdempotentHandler) key(event shared.DomainEvent) string {
	if h.prefix == "" {
		return event.EventID().String()
	}
	return h.prefix + ":" + event.EventID().String()
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
