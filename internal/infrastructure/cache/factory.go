package cache

import (
	"go.uber.org/zap"

	"github.com/vereinhub/backend/internal/domain/shared"
	"github.com/vereinhub/backend/internal/infrastructure/config"
)

// NewIdempotencyStore returns a Redis-backed store, falling back to the
// in-memory store when Redis is unreachable. The fallback does not share
// state across instances, so duplicate submissions are possible in a
// multi-instance deployment; the warning makes that visible.
func NewIdempotencyStore(cfg config.RedisConfig, log *zap.Logger) (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err == nil {
		log.Info("using Redis idempotency store")
		return store, nil
	}

	log.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"This may cause duplicate submission processing in distributed deployments.",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
