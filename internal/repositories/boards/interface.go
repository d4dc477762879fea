package boards

import (
	"context"

	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

type Repository interface {
	// Save inserts m, replacing every column of a row with the same hash.
	Save(ctx context.Context, m models.BoardMessage) error

	MarkRead(ctx context.Context, hash string) error

	// List returns posts ordered by timestamp descending. An empty board
	// selects every board.
	List(ctx context.Context, board string) ([]models.BoardMessage, error)

	// LatestTimestamp returns the greatest stored timestamp, or "" when
	// there are no posts.
	LatestTimestamp(ctx context.Context) (string, error)

	Exists(ctx context.Context, hash string) (bool, error)
	UnreadCount(ctx context.Context) (int, error)
}
