package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/quotebook/backend/internal/domain/shared"
	"github.com/quotebook/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPingTimeout = 3 * time.Second

// NewRedisClient builds a go-redis client from configuration
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: redisPingTimeout,
	})
}

// NewIdempotencyStore returns a Redis store when Redis is enabled and reachable.
// Otherwise it falls back to an in-memory store unless requireRedis is set.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, requireRedis bool, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if !cfg.Enabled {
		if requireRedis {
			return nil, fmt.Errorf("redis is required for event idempotency but disabled")
		}
		logger.Info("Redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	client := NewRedisClient(cfg)
	store := NewRedisIdempotencyStore(client, DefaultKeyPrefix)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = client.Close()
		if requireRedis {
			return nil, fmt.Errorf("redis unavailable at %s: %w", cfg.Addr(), err)
		}
		logger.Warn("Redis unavailable, using in-memory idempotency store",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore(), nil
	}

	logger.Info("Using Redis idempotency store", zap.String("addr", cfg.Addr()))
	return store, nil
}
