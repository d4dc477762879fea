// Package payees stores the address book.
package payees

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

func (r *SQLiteRepository) Add(ctx context.Context, p models.Payee) error {
	query := `INSERT INTO payees (nickname, address, payment_id) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, p.Nickname, p.Address, p.PaymentID); err != nil {
		return fmt.Errorf("failed to add payee: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) RemoveByNickname(ctx context.Context, nickname string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM payees WHERE nickname = ?`, nickname); err != nil {
		return fmt.Errorf("failed to remove payee: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.Payee, error) {
	query := `SELECT COALESCE(nickname, ''), COALESCE(address, ''), COALESCE(payment_id, '')
		FROM payees ORDER BY rowid`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payees: %w", err)
	}
	defer rows.Close()

	var result []models.Payee
	for rows.Next() {
		var p models.Payee
		if err := rows.Scan(&p.Nickname, &p.Address, &p.PaymentID); err != nil {
			return nil, fmt.Errorf("failed to scan payee: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payees: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM payees`); err != nil {
		return fmt.Errorf("failed to clear payees: %w", err)
	}
	return nil
}
