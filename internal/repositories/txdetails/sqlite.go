// Package txdetails is an append-only side index from transaction hash to
// the memo, address and payee the user attached when sending.
package txdetails

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Save(ctx context.Context, d models.TransactionDetail) error {
	query := `INSERT INTO transaction_details (hash, memo, address, payee_name) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, d.Hash, d.Memo, d.Address, d.PayeeName); err != nil {
		return fmt.Errorf("failed to save transaction details: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.TransactionDetail, error) {
	query := `SELECT COALESCE(hash, ''), COALESCE(memo, ''), COALESCE(address, ''), COALESCE(payee_name, '')
		FROM transaction_details ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction details: %w", err)
	}
	defer rows.Close()

	var result []models.TransactionDetail
	for rows.Next() {
		var d models.TransactionDetail
		if err := rows.Scan(&d.Hash, &d.Memo, &d.Address, &d.PayeeName); err != nil {
			return nil, fmt.Errorf("failed to scan transaction details: %w", err)
		}
		result = append(result, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction details: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Hashes(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT hash FROM transaction_details WHERE hash IS NOT NULL ORDER BY hash`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transaction hashes: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("failed to scan transaction hash: %w", err)
		}
		result = append(result, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transaction hashes: %w", err)
	}
	return result, nil
}
