package redis

import (
	"context"
	"time"
)

// TripCacheInterface defines the interface for trip snapshot caching.
type TripCacheInterface interface {
	GetTrip(ctx context.Context, tripID string) (*CachedTrip, error)
	SetTrip(ctx context.Context, trip *CachedTrip) error
	InvalidateTrip(ctx context.Context, tripID string) error
}

// SweepLockInterface defines the interface for the retention sweep lock.
type SweepLockInterface interface {
	AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseSweepLock(ctx context.Context) error
}

// Ensure concrete types implement interfaces.
var (
	_ TripCacheInterface = (*CacheStore)(nil)
	_ SweepLockInterface = (*LockStore)(nil)
)
