package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/geo"
	"github.com/LZPPS/routelink/internal/redis"
	"github.com/LZPPS/routelink/internal/repository"
)

// CreateTripRequest carries the fields a driver supplies when
// publishing a trip.
type CreateTripRequest struct {
	StartPlace        string
	StartLat          float64
	StartLng          float64
	EndPlace          string
	EndLat            float64
	EndLng            float64
	RideAt            time.Time
	PricePerSeatCents int64
	Seats             int
}

// TripService handles trip publication, lifecycle commands and reads.
// Lifecycle commands (close, reopen, complete) run inside a transaction
// on a locked trip row so they serialize against booking confirmations.
type TripService struct {
	txm      repository.TxManager
	tripRepo repository.TripRepository
	cache    redis.TripCacheInterface
}

// NewTripService creates a new TripService. cache may be nil.
func NewTripService(txm repository.TxManager, tripRepo repository.TripRepository, cache redis.TripCacheInterface) *TripService {
	return &TripService{txm: txm, tripRepo: tripRepo, cache: cache}
}

// Create publishes a new trip for the driver. The trip starts OPEN,
// active, with a full seat inventory.
func (s *TripService) Create(ctx context.Context, driverID string, req CreateTripRequest) (*domain.Trip, error) {
	if driverID == "" {
		return nil, ErrUnauthenticated
	}
	if req.StartPlace == "" || req.EndPlace == "" {
		return nil, ErrInvalidPlace
	}
	if !validCoord(req.StartLat, req.StartLng) || !validCoord(req.EndLat, req.EndLng) {
		return nil, ErrInvalidPlace
	}
	if req.RideAt.IsZero() {
		return nil, ErrInvalidRideTime
	}
	if req.Seats < 1 {
		return nil, ErrInvalidSeats
	}
	if req.PricePerSeatCents < 0 {
		return nil, ErrInvalidPrice
	}

	trip := &domain.Trip{
		ID:                uuid.New().String(),
		DriverID:          driverID,
		StartPlace:        req.StartPlace,
		StartLat:          req.StartLat,
		StartLng:          req.StartLng,
		EndPlace:          req.EndPlace,
		EndLat:            req.EndLat,
		EndLng:            req.EndLng,
		RideAt:            req.RideAt.UTC(),
		PricePerSeatCents: req.PricePerSeatCents,
		SeatsTotal:        req.Seats,
		SeatsLeft:         req.Seats,
		Status:            domain.TripStatusOpen,
		Active:            true,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

// Get retrieves a trip, preferring the Redis snapshot when present.
func (s *TripService) Get(ctx context.Context, tripID string) (*domain.Trip, error) {
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	if s.cache != nil {
		cached, err := s.cache.GetTrip(ctx, tripID)
		if err == nil && cached != nil {
			if trip, ok := tripFromCache(cached); ok {
				return trip, nil
			}
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetTrip(ctx, tripToCache(trip))
	}
	return trip, nil
}

// GetByDriver retrieves all trips published by the driver.
func (s *TripService) GetByDriver(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	if driverID == "" {
		return nil, ErrUnauthenticated
	}
	return s.tripRepo.GetByDriverID(ctx, driverID)
}

// Close stops a trip from accepting bookings. Closing an already
// CLOSED trip is a no-op so retries are safe. Confirmed bookings are
// untouched.
func (s *TripService) Close(ctx context.Context, driverID, tripID string) (*domain.Trip, error) {
	return s.lifecycle(ctx, driverID, tripID, func(t *domain.Trip) (bool, error) {
		if t.Status == domain.TripStatusClosed && !t.Active {
			return false, nil
		}
		t.Status = domain.TripStatusClosed
		t.Active = false
		return true, nil
	})
}

// Reopen returns a CLOSED trip to OPEN. It fails when no seats remain;
// the trip would be immediately FULL and the reopen meaningless.
func (s *TripService) Reopen(ctx context.Context, driverID, tripID string) (*domain.Trip, error) {
	return s.lifecycle(ctx, driverID, tripID, func(t *domain.Trip) (bool, error) {
		if t.SeatsLeft == 0 {
			return false, ErrNoSeatsLeft
		}
		if t.Status == domain.TripStatusOpen && t.Active {
			return false, nil
		}
		t.Status = domain.TripStatusOpen
		t.Active = true
		return true, nil
	})
}

// Complete marks a ride as taken place, closing the trip for good.
// Unlike Close it rejects a trip that is already CLOSED.
func (s *TripService) Complete(ctx context.Context, driverID, tripID string) (*domain.Trip, error) {
	return s.lifecycle(ctx, driverID, tripID, func(t *domain.Trip) (bool, error) {
		if t.Status == domain.TripStatusClosed {
			return false, ErrTripClosed
		}
		t.Status = domain.TripStatusClosed
		t.Active = false
		return true, nil
	})
}

// SetPath stores the trip's route as an encoded polyline and returns
// the encoding. At least two points are required.
func (s *TripService) SetPath(ctx context.Context, driverID, tripID string, points []geo.Point) (string, error) {
	if len(points) < 2 {
		return "", ErrInvalidPath
	}
	for _, p := range points {
		if !validCoord(p.Lat, p.Lng) {
			return "", ErrInvalidPath
		}
	}
	encoded := geo.EncodePolyline(points)

	_, err := s.lifecycle(ctx, driverID, tripID, func(t *domain.Trip) (bool, error) {
		t.Polyline = encoded
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return encoded, nil
}

// GetPath decodes the trip's stored polyline. A trip without a path
// yields an empty slice.
func (s *TripService) GetPath(ctx context.Context, tripID string) ([]geo.Point, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return geo.DecodePolyline(trip.Polyline), nil
}

// lifecycle runs mutate on the driver's trip under a row lock. mutate
// reports whether the row changed; unchanged trips skip the write and
// the cache invalidation.
func (s *TripService) lifecycle(ctx context.Context, driverID, tripID string, mutate func(*domain.Trip) (bool, error)) (*domain.Trip, error) {
	if driverID == "" {
		return nil, ErrUnauthenticated
	}
	if tripID == "" {
		return nil, ErrInvalidTripID
	}

	pre, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if pre.DriverID != driverID {
		return nil, ErrNotTripDriver
	}

	var trip *domain.Trip
	err = s.txm.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		t, err := tx.Trips().GetByIDForUpdate(ctx, tripID)
		if err != nil {
			return err
		}
		changed, err := mutate(t)
		if err != nil {
			return err
		}
		trip = t
		if !changed {
			return nil
		}
		if err := tx.Trips().Update(ctx, t); err != nil {
			return err
		}
		tx.AfterCommit(func() {
			if s.cache != nil {
				_ = s.cache.InvalidateTrip(ctx, tripID)
			}
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

func validCoord(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func tripToCache(t *domain.Trip) *redis.CachedTrip {
	return &redis.CachedTrip{
		ID:                t.ID,
		DriverID:          t.DriverID,
		StartPlace:        t.StartPlace,
		StartLat:          t.StartLat,
		StartLng:          t.StartLng,
		EndPlace:          t.EndPlace,
		EndLat:            t.EndLat,
		EndLng:            t.EndLng,
		Polyline:          t.Polyline,
		RideAt:            t.RideAt.UTC().Format(time.RFC3339Nano),
		PricePerSeatCents: t.PricePerSeatCents,
		SeatsTotal:        t.SeatsTotal,
		SeatsLeft:         t.SeatsLeft,
		Status:            string(t.Status),
		Active:            t.Active,
		CreatedAt:         t.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func tripFromCache(c *redis.CachedTrip) (*domain.Trip, bool) {
	rideAt, err := time.Parse(time.RFC3339Nano, c.RideAt)
	if err != nil {
		return nil, false
	}
	createdAt, err := time.Parse(time.RFC3339Nano, c.CreatedAt)
	if err != nil {
		return nil, false
	}
	return &domain.Trip{
		ID:                c.ID,
		DriverID:          c.DriverID,
		StartPlace:        c.StartPlace,
		StartLat:          c.StartLat,
		StartLng:          c.StartLng,
		EndPlace:          c.EndPlace,
		EndLat:            c.EndLat,
		EndLng:            c.EndLng,
		Polyline:          c.Polyline,
		RideAt:            rideAt,
		PricePerSeatCents: c.PricePerSeatCents,
		SeatsTotal:        c.SeatsTotal,
		SeatsLeft:         c.SeatsLeft,
		Status:            domain.TripStatus(c.Status),
		Active:            c.Active,
		CreatedAt:         createdAt,
	}, true
}
