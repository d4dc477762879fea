// Package blob stores the serialized wallet, which outgrows the engine's
// per-value limits, as ordered chunk rows of one logical slot.
package blob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/chunk"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
)

type SQLiteRepository struct {
	db        *sql.DB
	chunkSize int
}

type Option func(*SQLiteRepository)

// WithChunkSize overrides chunk.DefaultSize. Values below 1 are ignored.
func WithChunkSize(n int) Option {
	return func(r *SQLiteRepository) {
		if n > 0 {
			r.chunkSize = n
		}
	}
}

func NewSQLiteRepository(db *sql.DB, opts ...Option) *SQLiteRepository {
	r := &SQLiteRepository{db: db, chunkSize: chunk.DefaultSize}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *SQLiteRepository) Save(ctx context.Context, payload string) error {
	chunks, err := chunk.Split(payload, r.chunkSize)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM wallet_blob`); err != nil {
			return fmt.Errorf("failed to clear wallet blob: %w", err)
		}
		for i, c := range chunks {
			if _, err := tx.ExecContext(ctx, `INSERT INTO wallet_blob (chunk_index, text) VALUES (?, ?)`, i, c); err != nil {
				return fmt.Errorf("failed to insert wallet chunk %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return nil
}

// Load reads inside a transaction so a concurrent Save is seen either fully
// or not at all.
//
// A slot holding one oversized row (written before chunking existed, or by
// another tool) is read back with bounded SUBSTR calls instead of one query
// returning the whole value.
func (r *SQLiteRepository) Load(ctx context.Context) (string, error) {
	var payload string

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		lengths, err := r.lengths(ctx, tx)
		if err != nil {
			return err
		}
		if len(lengths) == 0 {
			return common.ErrNotFound
		}
		if len(lengths) == 1 && lengths[0] > int64(r.chunkSize) {
			payload, err = r.readSubstrings(ctx, tx, lengths[0])
			return err
		}
		payload, err = r.readRows(ctx, tx)
		return err
	})
	if errors.Is(err, common.ErrNotFound) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	if payload == "" {
		return "", common.ErrNotFound
	}
	return payload, nil
}

// lengths returns at most two row lengths; more are never needed to pick a
// read strategy.
func (r *SQLiteRepository) lengths(ctx context.Context, tx dbx.DBTX) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT LENGTH(text) FROM wallet_blob LIMIT 2`)
	if err != nil {
		return nil, fmt.Errorf("failed to measure wallet blob: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var n sql.NullInt64
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan wallet blob length: %w", err)
		}
		out = append(out, n.Int64)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet blob: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) readSubstrings(ctx context.Context, tx dbx.DBTX, total int64) (string, error) {
	var b strings.Builder
	// SUBSTR offsets are 1-based and count characters.
	for offset := int64(1); offset <= total; offset += int64(r.chunkSize) {
		var part sql.NullString
		err := tx.QueryRowContext(ctx, `SELECT SUBSTR(text, ?, ?) FROM wallet_blob`, offset, r.chunkSize).Scan(&part)
		if err != nil {
			return "", fmt.Errorf("failed to read wallet blob at %d: %w", offset, err)
		}
		b.WriteString(part.String)
	}
	return b.String(), nil
}

func (r *SQLiteRepository) readRows(ctx context.Context, tx dbx.DBTX) (string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT text FROM wallet_blob ORDER BY chunk_index ASC`)
	if err != nil {
		return "", fmt.Errorf("failed to read wallet blob: %w", err)
	}
	defer rows.Close()

	var chunks []string
	for rows.Next() {
		var c sql.NullString
		if err := rows.Scan(&c); err != nil {
			return "", fmt.Errorf("failed to scan wallet chunk: %w", err)
		}
		chunks = append(chunks, c.String)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate wallet chunks: %w", err)
	}
	return chunk.Join(chunks), nil
}
