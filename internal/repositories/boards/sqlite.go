// Package boards stores public board posts, deduplicated by hash.
package boards

import (
	"context"
	"database/sql"
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

const selectColumns = `SELECT COALESCE(body, ''), COALESCE(address, ''), COALESCE(signature, ''), COALESCE(board, ''),
	COALESCE(timestamp, ''), COALESCE(nickname, ''), COALESCE(reply, ''), COALESCE(hash, ''), COALESCE(sent, 0), COALESCE(read, 1)
	FROM board_messages`

func (r *SQLiteRepository) Save(ctx context.Context, m models.BoardMessage) error {
	query := `INSERT OR REPLACE INTO board_messages
		(address, body, signature, board, timestamp, nickname, reply, hash, sent, read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		m.Address, m.Body, m.Signature, m.Board, m.Timestamp, m.Nickname, m.Reply, m.Hash, m.Sent, m.Read)
	if err != nil {
		return fmt.Errorf("failed to save board message: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkRead(ctx context.Context, hash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE board_messages SET read = 1 WHERE hash = ?`, hash)
	if err != nil {
		return fmt.Errorf("failed to mark board message read: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, board string) ([]models.BoardMessage, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if board == "" {
		rows, err = r.db.QueryContext(ctx, selectColumns+` ORDER BY timestamp DESC`)
	} else {
		rows, err = r.db.QueryContext(ctx, selectColumns+` WHERE board = ? ORDER BY timestamp DESC`, board)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list board messages: %w", err)
	}
	defer rows.Close()

	var result []models.BoardMessage
	for rows.Next() {
		var m models.BoardMessage
		err := rows.Scan(&m.Body, &m.Address, &m.Signature, &m.Board,
			&m.Timestamp, &m.Nickname, &m.Reply, &m.Hash, &m.Sent, &m.Read)
		if err != nil {
			return nil, fmt.Errorf("failed to scan board message: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate board messages: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) LatestTimestamp(ctx context.Context) (string, error) {
	var ts sql.NullString
	err := r.db.QueryRowContext(ctx, `SELECT MAX(timestamp) FROM board_messages`).Scan(&ts)
	if err != nil {
		return "", fmt.Errorf("failed to get latest board timestamp: %w", err)
	}
	return ts.String, nil
}

func (r *SQLiteRepository) Exists(ctx context.Context, hash string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM board_messages WHERE hash = ?)`, hash).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check board message: %w", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) UnreadCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM board_messages WHERE read = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread board messages: %w", err)
	}
	return n, nil
}
