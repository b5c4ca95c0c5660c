package repository

import "context"

// Tx exposes transaction-scoped repositories plus a post-commit hook
// list. Hooks registered with AfterCommit run only if the enclosing
// transaction commits, in registration order, outside any lock; they
// are the place for side effects like notification dispatch.
type Tx interface {
	Trips() TripRepository
	Bookings() BookingRepository
	Users() UserRepository
	Ratings() RatingRepository
	AfterCommit(fn func())
}

// TxManager runs a function inside a transaction. If fn returns an
// error the transaction rolls back and registered hooks are discarded;
// otherwise the transaction commits and hooks fire.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
