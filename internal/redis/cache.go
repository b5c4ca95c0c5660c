package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// TripCacheTTL bounds staleness of cached trip snapshots. Reservation
// transitions invalidate eagerly, so the TTL only covers writers that
// bypass the coordinator.
const TripCacheTTL = 30 * time.Second

const tripCachePrefix = "cache:trip:"

// CachedTrip is the read-model snapshot stored in Redis for hot trip
// lookups. Seat counts may lag the database by up to TripCacheTTL.
type CachedTrip struct {
	ID                string  `json:"id"`
	DriverID          string  `json:"driver_id"`
	StartPlace        string  `json:"start_place"`
	StartLat          float64 `json:"start_lat"`
	StartLng          float64 `json:"start_lng"`
	EndPlace          string  `json:"end_place"`
	EndLat            float64 `json:"end_lat"`
	EndLng            float64 `json:"end_lng"`
	Polyline          string  `json:"polyline"`
	RideAt            string  `json:"ride_at"`
	PricePerSeatCents int64   `json:"price_per_seat_cents"`
	SeatsTotal        int     `json:"seats_total"`
	SeatsLeft         int     `json:"seats_left"`
	Status            string  `json:"status"`
	Active            bool    `json:"active"`
	CreatedAt         string  `json:"created_at"`
}

// CacheStore handles trip snapshot caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// GetTrip retrieves a trip snapshot from cache. A cache miss returns
// (nil, nil).
func (s *CacheStore) GetTrip(ctx context.Context, tripID string) (*CachedTrip, error) {
	data, err := s.client.Get(ctx, tripCachePrefix+tripID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var trip CachedTrip
	if err := json.Unmarshal(data, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// SetTrip stores a trip snapshot in cache.
func (s *CacheStore) SetTrip(ctx context.Context, trip *CachedTrip) error {
	data, err := json.Marshal(trip)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, tripCachePrefix+trip.ID, data, TripCacheTTL).Err()
}

// InvalidateTrip removes a trip snapshot from cache. Called by the
// reservation coordinator after every committed transition.
func (s *CacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	return s.client.Del(ctx, tripCachePrefix+tripID).Err()
}
