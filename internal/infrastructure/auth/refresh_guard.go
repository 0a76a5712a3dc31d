package auth

import (
	"context"
	"errors"
	"time"

	"github.com/quotebook/backend/internal/domain/shared"
)

// ErrRefreshTokenReused is returned when a rotated refresh token is presented again
var ErrRefreshTokenReused = errors.New("refresh token has already been used")

const refreshKeyPrefix = "auth:refresh:"

// RefreshGuard makes refresh tokens single use by recording each consumed
// token id in the idempotency store until the token would have expired
type RefreshGuard struct {
	store shared.IdempotencyStore
	now   func() time.Time
}

// NewRefreshGuard creates a guard backed by store
func NewRefreshGuard(store shared.IdempotencyStore) *RefreshGuard {
	return &RefreshGuard{store: store, now: time.Now}
}

// Consume marks the refresh token as used and fails if it already was
func (g *RefreshGuard) Consume(ctx context.Context, claims *Claims) error {
	ttl := claims.ExpiresAtTime().Sub(g.now())
	if ttl <= 0 {
		return ErrExpiredToken
	}
	isNew, err := g.store.MarkProcessed(ctx, refreshKeyPrefix+claims.ID, ttl)
	if err != nil {
		return err
	}
	if !isNew {
		return ErrRefreshTokenReused
	}
	return nil
}
