package repository

import (
	"context"

	"github.com/LZPPS/routelink/internal/domain"
)

// RatingRepository defines the persistence operations for ratings.
type RatingRepository interface {
	// Create persists a new rating. A (booking, rater) collision is
	// reported as ErrDuplicateRating.
	Create(ctx context.Context, rating *domain.Rating) error

	// GetByBookingAndRater retrieves the rating the rater left on the
	// booking, if any.
	GetByBookingAndRater(ctx context.Context, bookingID, raterID string) (*domain.Rating, error)
}
