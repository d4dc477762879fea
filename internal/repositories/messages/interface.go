package messages

import (
	"context"

	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

type Repository interface {
	// Save inserts m, replacing any row with the same timestamp.
	Save(ctx context.Context, m models.Message) error

	// Insert adds m without replace semantics; a duplicate timestamp fails.
	Insert(ctx context.Context, m models.Message) error

	Remove(ctx context.Context, timestamp string) error
	MarkConversationRead(ctx context.Context, conversation string) error

	// List returns messages ordered by timestamp ascending. An empty
	// conversation selects every conversation.
	List(ctx context.Context, conversation string) ([]models.Message, error)

	// Latest returns the newest message of every conversation, ordered by
	// timestamp ascending.
	Latest(ctx context.Context) ([]models.Message, error)

	Exists(ctx context.Context, timestamp string) (bool, error)
	DeleteByConversation(ctx context.Context, conversation string) error
	Clear(ctx context.Context) error
	UnreadCount(ctx context.Context) (int, error)
}
