package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderLock_Acquire(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	lock := NewOrderLock(client)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "TOPUP-42-1700000000-abcdef", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "free lease should be acquired")
}

func TestOrderLock_Acquire_Contended(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	lock := NewOrderLock(client)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "TOPUP-42-1700000000-abcdef", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// Second acquirer loses while the lease is held
	ok, err = lock.Acquire(ctx, "TOPUP-42-1700000000-abcdef", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "held lease should not be acquired twice")
}

func TestOrderLock_Acquire_DifferentOrders(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	lock := NewOrderLock(client)
	ctx := context.Background()

	ok1, err := lock.Acquire(ctx, "TOPUP-1-1-aa", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok1)

	ok2, err := lock.Acquire(ctx, "TOPUP-2-1-bb", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok2, "lease on one order must not block another")
}

func TestOrderLock_Release(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	lock := NewOrderLock(client)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "TOPUP-42-1700000000-abcdef", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, lock.Release(ctx, "TOPUP-42-1700000000-abcdef"))

	ok, err = lock.Acquire(ctx, "TOPUP-42-1700000000-abcdef", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "released lease should be acquirable again")
}

func TestOrderLock_ExpiresByTTL(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	lock := NewOrderLock(client)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "TOPUP-42-1700000000-abcdef", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	// Fast-forward past TTL: a crashed holder must not wedge the order
	s.FastForward(2 * time.Second)

	ok, err = lock.Acquire(ctx, "TOPUP-42-1700000000-abcdef", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
