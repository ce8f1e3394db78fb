package dbx

import (
	"context"
	"database/sql"
)

// TxRunner runs fn inside one all-or-nothing unit of work. Services depend
// on it rather than on *sql.DB so that non-SQL stores can provide the same
// guarantee.
type TxRunner interface {
	RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error
}

// SQLRunner is a TxRunner over a *sql.DB.
type SQLRunner struct {
	DB *sql.DB
}

func NewSQLRunner(db *sql.DB) *SQLRunner {
	return &SQLRunner{DB: db}
}

func (r *SQLRunner) RunInTx(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	return WithTx(ctx, r.DB, opts, fn)
}
