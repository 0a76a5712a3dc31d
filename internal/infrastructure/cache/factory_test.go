package cache

import (
	"context"
	"testing"

	"github.com/quotebook/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewIdempotencyStore_RedisDisabled(t *testing.T) {
	store, err := NewIdempotencyStore(context.Background(), config.RedisConfig{Enabled: false}, false, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &InMemoryIdempotencyStore{}, store)

	_, err = NewIdempotencyStore(context.Background(), config.RedisConfig{Enabled: false}, true, zap.NewNop())
	assert.Error(t, err)
}

func TestNewIdempotencyStore_FallsBackWhenUnreachable(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}

	store, err := NewIdempotencyStore(context.Background(), cfg, false, zap.New(core))
	require.NoError(t, err)
	assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	assert.Equal(t, 1, logs.FilterMessage("Redis unavailable, using in-memory idempotency store").Len())

	_, err = NewIdempotencyStore(context.Background(), cfg, true, zap.NewNop())
	assert.Error(t, err)
}
