package repository

import (
	"context"

	"github.com/LZPPS/routelink/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking. A violation of the (trip, rider)
	// uniqueness constraint is reported as ErrDuplicateBooking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByIDForUpdate retrieves a booking by ID holding an exclusive
	// row lock for the remainder of the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error)

	// GetByTripAndRider retrieves the booking for a (trip, rider) pair,
	// live or stale.
	GetByTripAndRider(ctx context.Context, tripID, riderID string) (*domain.Booking, error)

	// GetByTripID retrieves all bookings on a trip.
	GetByTripID(ctx context.Context, tripID string) ([]*domain.Booking, error)

	// GetByRiderID retrieves all bookings placed by a rider.
	GetByRiderID(ctx context.Context, riderID string) ([]*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error
}
