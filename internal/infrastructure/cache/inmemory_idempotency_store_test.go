package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClosedOnCleanup(t *testing.T) *InMemoryIdempotencyStore {
	t.Helper()
	store := NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := newClosedOnCleanup(t)
	ctx := context.Background()

	t.Run("first claim wins", func(t *testing.T) {
		claimed, err := store.MarkProcessed(ctx, "submit-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, claimed)

		claimed, err = store.MarkProcessed(ctx, "submit-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, claimed, "second claim on the same key must lose")
	})

	t.Run("an expired key can be claimed again", func(t *testing.T) {
		claimed, err := store.MarkProcessed(ctx, "submit-2", 10*time.Millisecond)
		require.NoError(t, err)
		assert.True(t, claimed)

		time.Sleep(20 * time.Millisecond)

		claimed, err = store.MarkProcessed(ctx, "submit-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, claimed)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := newClosedOnCleanup(t)
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "unknown-key")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(ctx, "claimed-key", time.Hour)
	require.NoError(t, err)
	processed, err = store.IsProcessed(ctx, "claimed-key")
	require.NoError(t, err)
	assert.True(t, processed)

	_, err = store.MarkProcessed(ctx, "expiring-key", 10*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	processed, err = store.IsProcessed(ctx, "expiring-key")
	require.NoError(t, err)
	assert.False(t, processed, "expired keys read as unprocessed")
}

func TestInMemoryIdempotencyStore_Size(t *testing.T) {
	store := newClosedOnCleanup(t)
	ctx := context.Background()

	assert.Zero(t, store.Size())

	store.MarkProcessed(ctx, "submit-1", time.Hour)
	store.MarkProcessed(ctx, "submit-2", time.Hour)
	assert.Equal(t, 2, store.Size())

	// Re-claiming an existing key does not grow the store
	store.MarkProcessed(ctx, "submit-1", time.Hour)
	assert.Equal(t, 2, store.Size())
}

func TestInMemoryIdempotencyStore_EvictsExpired(t *testing.T) {
	store := newClosedOnCleanup(t)
	ctx := context.Background()

	store.MarkProcessed(ctx, "short-lived-1", 10*time.Millisecond)
	store.MarkProcessed(ctx, "short-lived-2", 10*time.Millisecond)
	store.MarkProcessed(ctx, "long-lived", time.Hour)
	require.Equal(t, 3, store.Size())

	time.Sleep(20 * time.Millisecond)
	store.evictExpired()

	assert.Equal(t, 1, store.Size())

	processed, err := store.IsProcessed(ctx, "long-lived")
	require.NoError(t, err)
	assert.True(t, processed)

	processed, err = store.IsProcessed(ctx, "short-lived-1")
	require.NoError(t, err)
	assert.False(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := newClosedOnCleanup(t)
	ctx := context.Background()
	const workers = 100

	var wg sync.WaitGroup
	claims := make(chan bool, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := store.MarkProcessed(ctx, "contested-key", time.Hour)
			claims <- err == nil && claimed
		}()
	}
	wg.Wait()
	close(claims)

	winners := 0
	for claimed := range claims {
		if claimed {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one concurrent claim may win")
}

func TestInMemoryIdempotencyStore_DistinctKeysAreIndependent(t *testing.T) {
	store := newClosedOnCleanup(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		claimed, err := store.MarkProcessed(ctx, fmt.Sprintf("submit-%d", i), time.Hour)
		require.NoError(t, err)
		assert.True(t, claimed)
	}
	assert.Equal(t, 5, store.Size())
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close(), "Close is idempotent")
}
