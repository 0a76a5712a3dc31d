package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys for a limited time. Event handlers record
// processed event IDs in it and the auth service records spent refresh token
// IDs, so either side sees a replay as an existing key.
type IdempotencyStore interface {
	// MarkProcessed records key for ttl. It reports false when key was
	// already recorded and has not expired.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets key so the next delivery is handled again
	Release(ctx context.Context, key string) error

	Close() error
}

// IdempotencyConfig controls deduplication of event deliveries
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig keeps event IDs for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
