// Package dbx provides the small database layer shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx, a
// helper to run functions inside a transaction, and Open, which returns a
// SQLite handle whose transactions never interleave.
package dbx

import (
	"context"
	"database/sql"
	"fmt"

	// pure-Go SQLite driver, registered as "sqlite"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver used for every store file.
const DriverName = "sqlite"

// busyTimeoutMs bounds how long a statement waits on a lock held by
// another process (e.g. the CLI inspecting a live store).
const busyTimeoutMs = 5000

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens the SQLite database at dsn with a single connection, so that
// concurrently issued transactions are serialized by database/sql instead
// of failing with SQLITE_BUSY.
//
// Because there is only one connection, code running inside WithTx must use
// the tx handle it was given; touching the *sql.DB there would deadlock.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dsn, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMs)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database %s: %w", dsn, err)
	}
	return db, nil
}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
// Typical use:
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE timestamp = ?", ts)
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
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

	err = fn(ctx, tx)
	return err
}
