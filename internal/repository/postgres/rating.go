package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/repository"
)

// RatingRepository is a PostgreSQL implementation of repository.RatingRepository.
type RatingRepository struct {
	q Querier
}

// NewRatingRepository creates a new PostgreSQL rating repository.
func NewRatingRepository(db *sql.DB) *RatingRepository {
	return &RatingRepository{q: db}
}

// NewRatingRepositoryWithTx creates a rating repository using a transaction.
func NewRatingRepositoryWithTx(tx *sql.Tx) *RatingRepository {
	return &RatingRepository{q: tx}
}

const ratingColumns = `id, booking_id, rater_id, ratee_id, stars, comment, created_at`

// Create persists a new rating. The uq_ratings_booking_rater constraint
// backstops the existence pre-check when two submissions race.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	query := `
		INSERT INTO ratings (` + ratingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var comment sql.NullString
	if rating.Comment != "" {
		comment = sql.NullString{String: rating.Comment, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		rating.ID,
		rating.BookingID,
		rating.RaterID,
		rating.RateeID,
		rating.Stars,
		comment,
		rating.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicateRating
		}
		return err
	}
	return nil
}

// GetByBookingAndRater retrieves the rater's rating on the booking.
func (r *RatingRepository) GetByBookingAndRater(ctx context.Context, bookingID, raterID string) (*domain.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings WHERE booking_id = $1 AND rater_id = $2`
	return r.scanOne(r.q.QueryRowContext(ctx, query, bookingID, raterID))
}

func (r *RatingRepository) scanOne(row *sql.Row) (*domain.Rating, error) {
	var rating domain.Rating
	var comment sql.NullString

	err := row.Scan(
		&rating.ID,
		&rating.BookingID,
		&rating.RaterID,
		&rating.RateeID,
		&rating.Stars,
		&comment,
		&rating.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if comment.Valid {
		rating.Comment = comment.String
	}
	return &rating, nil
}
