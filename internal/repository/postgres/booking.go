package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, trip_id, rider_id, seats, status, created_at`

// Create persists a new booking. The uq_bookings_trip_rider constraint
// backstops the existence pre-check when two requests for the same
// (trip, rider) pair race.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.TripID,
		booking.RiderID,
		booking.Seats,
		booking.Status,
		booking.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrDuplicateBooking
		}
		return err
	}
	return nil
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate retrieves a booking by ID with an exclusive row lock.
// Must be called inside a transaction. Reservation operations lock the
// booking row before the trip row to keep lock ordering consistent.
func (r *BookingRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByTripAndRider retrieves the booking for a (trip, rider) pair.
func (r *BookingRepository) GetByTripAndRider(ctx context.Context, tripID, riderID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = $1 AND rider_id = $2`
	return r.scanOne(r.q.QueryRowContext(ctx, query, tripID, riderID))
}

// GetByTripID retrieves all bookings on a trip, oldest first.
func (r *BookingRepository) GetByTripID(ctx context.Context, tripID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE trip_id = $1 ORDER BY created_at ASC`

	rows, err := r.q.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// GetByRiderID retrieves all bookings placed by a rider, newest first.
func (r *BookingRepository) GetByRiderID(ctx context.Context, riderID string) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE rider_id = $1 ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, riderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update updates an existing booking. Trip, rider and creation time are
// never rewritten.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `UPDATE bookings SET seats = $1, status = $2 WHERE id = $3`

	result, err := r.q.ExecContext(ctx, query, booking.Seats, booking.Status, booking.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *BookingRepository) scan(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	err := row.Scan(
		&booking.ID,
		&booking.TripID,
		&booking.RiderID,
		&booking.Seats,
		&booking.Status,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) scanOne(row *sql.Row) (*domain.Booking, error) {
	booking, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (r *BookingRepository) scanAll(rows *sql.Rows) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
