package repository

import (
	"context"
	"time"

	"github.com/LZPPS/routelink/internal/domain"
)

// TripSearchFilter narrows the candidate set before geometric matching.
// Price bounds are optional; nil means unbounded.
type TripSearchFilter struct {
	From      time.Time
	To        time.Time
	Statuses  []domain.TripStatus
	MinSeats  int
	MinPrice  *int64 // cents
	MaxPrice  *int64 // cents
	SortBy    string // "ride_at" or "price"; empty means ride_at
	SortDesc  bool
	Limit     int // 0 means no limit
	Offset    int
}

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// GetByIDForUpdate retrieves a trip by ID holding an exclusive row
	// lock for the remainder of the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Trip, error)

	// GetByDriverID retrieves all trips published by a driver.
	GetByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error)

	// Search retrieves active trips matching the filter.
	Search(ctx context.Context, filter TripSearchFilter) ([]*domain.Trip, error)

	// Update updates an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// DeleteInactiveBefore removes inactive trips whose ride time is
	// before the cutoff. It returns the number of rows deleted.
	DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
