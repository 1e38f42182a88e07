package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed submission keys so a retried
// request is recognized instead of creating a second aggregate.
type IdempotencyStore interface {
	// MarkProcessed claims the key for ttl. It reports false when the
	// key was already claimed and still live.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether the key is currently claimed.
	IsProcessed(ctx context.Context, key string) (bool, error)

	Close() error
}
