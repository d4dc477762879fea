// Package preferences persists the singleton settings row (id 0).
package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

const rowID = 0

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context) (*models.Preferences, error) {
	// columns added by migrations may hold NULL on rows that predate them
	query := `SELECT COALESCE(currency, ''), COALESCE(notifications_enabled, 0), COALESCE(scan_coinbase, 0),
			COALESCE(limit_data, 0), COALESCE(theme, ''), COALESCE(auth_confirmation, 0),
			COALESCE(auto_optimize, 0), COALESCE(auth_method, ''), COALESCE(node, ''), COALESCE(language, '')
		FROM preferences WHERE id = ?`

	var p models.Preferences
	err := r.db.QueryRowContext(ctx, query, rowID).Scan(
		&p.Currency, &p.NotificationsEnabled, &p.ScanCoinbase,
		&p.LimitData, &p.Theme, &p.AuthConfirmation,
		&p.AutoOptimize, &p.AuthMethod, &p.Node, &p.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return &p, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, p models.Preferences) error {
	query := `INSERT INTO preferences (id, currency, notifications_enabled, scan_coinbase, limit_data,
			theme, auth_confirmation, auto_optimize, auth_method, node, language)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET currency = excluded.currency,
			notifications_enabled = excluded.notifications_enabled,
			scan_coinbase = excluded.scan_coinbase,
			limit_data = excluded.limit_data,
			theme = excluded.theme,
			auth_confirmation = excluded.auth_confirmation,
			auto_optimize = excluded.auto_optimize,
			auth_method = excluded.auth_method,
			node = excluded.node,
			language = excluded.language`

	_, err := r.db.ExecContext(ctx, query, rowID,
		p.Currency, p.NotificationsEnabled, p.ScanCoinbase, p.LimitData,
		p.Theme, p.AuthConfirmation, p.AutoOptimize, p.AuthMethod, p.Node, p.Language)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
