package service

import (
	"context"
	"log"
	"time"

	"github.com/LZPPS/routelink/internal/redis"
	"github.com/LZPPS/routelink/internal/repository"
)

const sweepInterval = 24 * time.Hour

// CleanupService purges inactive trips whose ride time is past the
// retention grace window. A Redis lock keeps the sweep to a single
// instance per interval.
type CleanupService struct {
	tripRepo repository.TripRepository
	locks    redis.SweepLockInterface
	grace    time.Duration
}

// NewCleanupService creates a new CleanupService. locks may be nil, in
// which case every instance sweeps.
func NewCleanupService(tripRepo repository.TripRepository, locks redis.SweepLockInterface, grace time.Duration) *CleanupService {
	if grace <= 0 {
		grace = 24 * time.Hour
	}
	return &CleanupService{tripRepo: tripRepo, locks: locks, grace: grace}
}

// Run sweeps once a day until ctx is cancelled. Intended to be started
// as a goroutine from main.
func (s *CleanupService) Run(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				log.Printf("trip sweep failed: %v", err)
			}
		}
	}
}

// Sweep deletes inactive trips with ride_at older than now minus the
// grace window. Returns nil when another instance holds the lock.
func (s *CleanupService) Sweep(ctx context.Context) error {
	if s.locks != nil {
		acquired, err := s.locks.AcquireSweepLock(ctx, sweepInterval/2)
		if err != nil {
			return err
		}
		if !acquired {
			return nil
		}
		defer func() {
			_ = s.locks.ReleaseSweepLock(ctx)
		}()
	}

	cutoff := time.Now().UTC().Add(-s.grace)
	deleted, err := s.tripRepo.DeleteInactiveBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		log.Printf("trip sweep removed %d inactive trips older than %s", deleted, cutoff.Format(time.RFC3339))
	}
	return nil
}
