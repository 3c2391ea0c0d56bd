package worker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestLocks(t *testing.T) (TickLock, TickLock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	a := NewRedisTickLock(client, "escalation-lock", time.Minute)
	b := NewRedisTickLock(client, "escalation-lock", time.Minute)
	return a, b
}

func TestTickLockMutualExclusion(t *testing.T) {
	a, b := newTestLocks(t)
	ctx := context.Background()

	acquired, err := a.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	acquired, err = b.TryAcquire(ctx)
	require.NoError(t, err)
	require.False(t, acquired)

	require.NoError(t, a.Release(ctx))

	acquired, err = b.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)
}

func TestTickLockReleaseOnlyByOwner(t *testing.T) {
	a, b := newTestLocks(t)
	ctx := context.Background()

	acquired, err := a.TryAcquire(ctx)
	require.NoError(t, err)
	require.True(t, acquired)

	// non-owner release must not free the lock
	require.NoError(t, b.Release(ctx))

	acquired, err = b.TryAcquire(ctx)
	require.NoError(t, err)
	require.False(t, acquired)
}
