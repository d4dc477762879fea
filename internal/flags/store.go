// Package flags is a small key/value store kept in its own SQLite file,
// next to but independent of the wallet store. It answers whether a
// wallet exists before the main store is even opened.
package flags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
)

const createTable = `CREATE TABLE IF NOT EXISTS flags (
    key   TEXT PRIMARY KEY,
    value BLOB
)`

type Store struct {
	db  *sql.DB
	key string
}

// Open opens or creates the flag file at path. coin prefixes the wallet
// flag key, so several coins can share one file.
func Open(ctx context.Context, path, coin string) (*Store, error) {
	db, err := dbx.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create flags table: %w", err)
	}
	return &Store{db: db, key: coin + "HaveWallet"}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns nil for a missing key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM flags WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flag[%s]: %w", key, err)
	}
	return value, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flags (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set flag[%s]: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM flags WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete flag[%s]: %w", key, err)
	}
	return nil
}

// HaveWallet reports whether a wallet was saved. A missing flag is false.
func (s *Store) HaveWallet(ctx context.Context) (bool, error) {
	v, err := s.Get(ctx, s.key)
	if err != nil {
		return false, err
	}
	return string(v) == "true", nil
}

func (s *Store) SetHaveWallet(ctx context.Context, have bool) error {
	v := "false"
	if have {
		v = "true"
	}
	return s.Set(ctx, s.key, []byte(v))
}
