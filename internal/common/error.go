// Package common defines the error taxonomy shared by the storage, journal,
// cache and list layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrNotFound reports an absent blob or preferences row. It is expected
	// on first run and is not a failure of the store.
	ErrNotFound = errors.New("not found")

	// ErrStorage wraps I/O or constraint failures of the underlying engine.
	ErrStorage = errors.New("storage failure")

	// ErrMigration is fatal at startup: the store must not be used.
	ErrMigration = errors.New("migration failure")

	// ErrNetwork reports a failed remote list fetch. Always recoverable.
	ErrNetwork = errors.New("network failure")
)
