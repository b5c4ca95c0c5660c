package postgres

import (
	"context"
	"database/sql"

	"github.com/LZPPS/routelink/internal/repository"
)

// TxManager is the PostgreSQL implementation of repository.TxManager.
// It wraps each call in a database/sql transaction and runs registered
// post-commit hooks only after a successful commit, so side effects
// never execute while row locks are held.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// RunInTx executes fn inside a transaction. A non-nil error from fn
// rolls back and discards any registered hooks.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	sqlTx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	tx := &pgTx{
		trips:    NewTripRepositoryWithTx(sqlTx),
		bookings: NewBookingRepositoryWithTx(sqlTx),
		users:    NewUserRepositoryWithTx(sqlTx),
		ratings:  NewRatingRepositoryWithTx(sqlTx),
	}

	if err := fn(ctx, tx); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return err
	}

	for _, hook := range tx.hooks {
		hook()
	}
	return nil
}

// pgTx implements repository.Tx over a single *sql.Tx.
type pgTx struct {
	trips    *TripRepository
	bookings *BookingRepository
	users    *UserRepository
	ratings  *RatingRepository
	hooks    []func()
}

func (t *pgTx) Trips() repository.TripRepository       { return t.trips }
func (t *pgTx) Bookings() repository.BookingRepository { return t.bookings }
func (t *pgTx) Users() repository.UserRepository       { return t.users }
func (t *pgTx) Ratings() repository.RatingRepository   { return t.ratings }

func (t *pgTx) AfterCommit(fn func()) {
	t.hooks = append(t.hooks, fn)
}

var _ repository.TxManager = (*TxManager)(nil)
