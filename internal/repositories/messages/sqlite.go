// Package messages stores private conversation entries. The timestamp
// column is unique and acts as the dedup key.
package messages

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

const selectColumns = `SELECT COALESCE(conversation, ''), COALESCE(type, ''), COALESCE(body, ''), timestamp, COALESCE(read, 1)
	FROM messages`

func (r *SQLiteRepository) Save(ctx context.Context, m models.Message) error {
	query := `INSERT OR REPLACE INTO messages (conversation, type, body, timestamp, read) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, m.Conversation, string(m.Type), m.Body, m.Timestamp, m.Read)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Insert(ctx context.Context, m models.Message) error {
	query := `INSERT INTO messages (conversation, type, body, timestamp, read) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, m.Conversation, string(m.Type), m.Body, m.Timestamp, m.Read)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, timestamp string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE timestamp = ?`, timestamp)
	if err != nil {
		return fmt.Errorf("failed to remove message: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkConversationRead(ctx context.Context, conversation string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET read = 1 WHERE conversation = ?`, conversation)
	if err != nil {
		return fmt.Errorf("failed to mark conversation read: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, conversation string) ([]models.Message, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if conversation == "" {
		rows, err = r.db.QueryContext(ctx, selectColumns+` ORDER BY timestamp ASC`)
	} else {
		rows, err = r.db.QueryContext(ctx, selectColumns+` WHERE conversation = ? ORDER BY timestamp ASC`, conversation)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return scanMessages(rows)
}

func (r *SQLiteRepository) Latest(ctx context.Context) ([]models.Message, error) {
	// timestamp is unique, so each conversation's maximum matches one row
	query := selectColumns + ` WHERE timestamp IN (
			SELECT MAX(timestamp) FROM messages GROUP BY conversation
		) ORDER BY timestamp ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest messages: %w", err)
	}
	return scanMessages(rows)
}

func (r *SQLiteRepository) Exists(ctx context.Context, timestamp string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM messages WHERE timestamp = ?)`, timestamp).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check message: %w", err)
	}
	return exists, nil
}

func (r *SQLiteRepository) DeleteByConversation(ctx context.Context, conversation string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE conversation = ?`, conversation)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UnreadCount(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM messages WHERE read = 0`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}

func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	defer rows.Close()

	var result []models.Message
	for rows.Next() {
		var (
			m   models.Message
			typ string
		)
		if err := rows.Scan(&m.Conversation, &typ, &m.Body, &m.Timestamp, &m.Read); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Type = models.MessageType(typ)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return result, nil
}
