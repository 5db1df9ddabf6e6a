package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// OrderLock implements ports.OrderLock using Redis SET NX. The lease is
// advisory: it keeps the callback and polling reconcile paths from piling
// up on the same database row lock, but correctness never depends on it.
type OrderLock struct {
	client *goredis.Client
	prefix string
}

// NewOrderLock creates a new Redis-backed order lease.
func NewOrderLock(client *goredis.Client) *OrderLock {
	return &OrderLock{
		client: client,
		prefix: "orderlock:",
	}
}

// Acquire atomically takes the lease for an order if nobody holds it.
// Returns true when the lease was obtained.
func (l *OrderLock) Acquire(ctx context.Context, orderID string, ttl time.Duration) (bool, error) {
	key := l.prefix + orderID
	result, err := l.client.SetArgs(ctx, key, 1, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if err == goredis.Nil {
			// Key already exists — another reconcile holds the lease
			return false, nil
		}
		return false, fmt.Errorf("redis order lock: %w", err)
	}
	return result == "OK", nil
}

// Release drops the lease early. Expiry via TTL covers the crash case.
func (l *OrderLock) Release(ctx context.Context, orderID string) error {
	return l.client.Del(ctx, l.prefix+orderID).Err()
}
