package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LZPPS/routelink/internal/domain"
	"github.com/LZPPS/routelink/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, driver_id, start_place, start_lat, start_lng, end_place, end_lat, end_lng, polyline, ride_at, price_per_seat_cents, seats_total, seats_left, status, active, created_at`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	var polyline sql.NullString
	if trip.Polyline != "" {
		polyline = sql.NullString{String: trip.Polyline, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.StartPlace,
		trip.StartLat,
		trip.StartLng,
		trip.EndPlace,
		trip.EndLat,
		trip.EndLng,
		polyline,
		trip.RideAt,
		trip.PricePerSeatCents,
		trip.SeatsTotal,
		trip.SeatsLeft,
		trip.Status,
		trip.Active,
		trip.CreatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate retrieves a trip by ID with an exclusive row lock.
// Must be called inside a transaction; the lock is held until commit
// or rollback.
func (r *TripRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByDriverID retrieves all trips published by a driver, newest first.
func (r *TripRepository) GetByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE driver_id = $1 ORDER BY ride_at DESC`

	rows, err := r.q.QueryContext(ctx, query, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Search retrieves active trips matching the filter. Candidates are
// prefiltered in SQL; geometric matching happens in the service layer.
func (r *TripRepository) Search(ctx context.Context, filter repository.TripSearchFilter) ([]*domain.Trip, error) {
	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = []domain.TripStatus{domain.TripStatusOpen}
	}
	placeholders := make([]string, len(statuses))
	args := []any{filter.From, filter.To, filter.MinSeats}
	for i, s := range statuses {
		args = append(args, string(s))
		placeholders[i] = fmt.Sprintf("$%d", len(args))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + tripColumns + ` FROM trips
		WHERE active = true
		  AND ride_at BETWEEN $1 AND $2
		  AND seats_left >= $3
		  AND status IN (` + strings.Join(placeholders, ", ") + `)`)

	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		fmt.Fprintf(&sb, " AND price_per_seat_cents >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		fmt.Fprintf(&sb, " AND price_per_seat_cents <= $%d", len(args))
	}

	sortCol := "ride_at"
	if filter.SortBy == "price" {
		sortCol = "price_per_seat_cents"
	}
	dir := "ASC"
	if filter.SortDesc {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s, id ASC", sortCol, dir)

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
		args = append(args, filter.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := r.q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanAll(rows)
}

// Update updates an existing trip. Driver and creation time are never
// rewritten.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET start_place = $1, start_lat = $2, start_lng = $3,
		    end_place = $4, end_lat = $5, end_lng = $6,
		    polyline = $7, ride_at = $8, price_per_seat_cents = $9,
		    seats_left = $10, status = $11, active = $12
		WHERE id = $13
	`

	var polyline sql.NullString
	if trip.Polyline != "" {
		polyline = sql.NullString{String: trip.Polyline, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		trip.StartPlace,
		trip.StartLat,
		trip.StartLng,
		trip.EndPlace,
		trip.EndLat,
		trip.EndLng,
		polyline,
		trip.RideAt,
		trip.PricePerSeatCents,
		trip.SeatsLeft,
		trip.Status,
		trip.Active,
		trip.ID,
	)
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

// DeleteInactiveBefore removes inactive trips past the cutoff.
func (r *TripRepository) DeleteInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.q.ExecContext(ctx,
		`DELETE FROM trips WHERE active = false AND ride_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TripRepository) scan(row rowScanner) (*domain.Trip, error) {
	var trip domain.Trip
	var polyline sql.NullString

	err := row.Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.StartPlace,
		&trip.StartLat,
		&trip.StartLng,
		&trip.EndPlace,
		&trip.EndLat,
		&trip.EndLng,
		&polyline,
		&trip.RideAt,
		&trip.PricePerSeatCents,
		&trip.SeatsTotal,
		&trip.SeatsLeft,
		&trip.Status,
		&trip.Active,
		&trip.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if polyline.Valid {
		trip.Polyline = polyline.String
	}
	return &trip, nil
}

func (r *TripRepository) scanOne(row *sql.Row) (*domain.Trip, error) {
	trip, err := r.scan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (r *TripRepository) scanAll(rows *sql.Rows) ([]*domain.Trip, error) {
	var trips []*domain.Trip
	for rows.Next() {
		trip, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}
	return trips, rows.Err()
}
