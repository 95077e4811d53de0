package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// withTx runs fn inside its own transaction: one unit of work per call. The
// transaction is rolled back on any error and committed otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}
