package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const sweepLockKey = "lock:trip-sweep"

// LockStore handles distributed locking in Redis. It guards the daily
// retention sweep so that only one instance runs it.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireSweepLock attempts to acquire the retention sweep lock.
// Returns true if the lock was acquired, false if another instance
// holds it.
func (s *LockStore) AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, sweepLockKey, "1", ttl).Result()
}

// ReleaseSweepLock releases the retention sweep lock.
func (s *LockStore) ReleaseSweepLock(ctx context.Context) error {
	return s.client.Del(ctx, sweepLockKey).Err()
}
