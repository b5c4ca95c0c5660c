package postgres

import (
	"context"
	"database/sql"
)

// Querier abstracts the query surface shared by *sql.DB and *sql.Tx,
// letting each repository run either standalone or transaction-scoped.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
