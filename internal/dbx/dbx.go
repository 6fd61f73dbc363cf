// Package dbx carries the one DB helper shared by relational stores:
// running a function inside a transaction with commit/rollback handled.
package dbx

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// WithTx begins a transaction, runs fn with it, commits on success and
// rolls back on error or panic. Panics are rethrown.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(tx)
	return err
}
