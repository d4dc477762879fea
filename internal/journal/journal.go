// Package journal implements the message journal: private conversations,
// public board posts, payees, transaction details and preferences.
//
// Every operation runs in exactly one transaction, so a reader observes
// either the state before an operation or after it, never in between.
// Storage failures are reported as common.ErrStorage.
package journal

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/repomanager"
)

// HomeBoard is the pseudo board that lists the posts of every board.
const HomeBoard = "Home"

// NoBoardMessages is what GetLatestBoardMessage returns for an empty table.
const NoBoardMessages = "0"

type Journal struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	log   logging.Logger
}

type Option func(*Journal)

func WithLogger(l logging.Logger) Option {
	return func(j *Journal) { j.log = l }
}

func New(db *sql.DB, repos repomanager.RepositoryManager, opts ...Option) *Journal {
	j := &Journal{db: db, repos: repos, log: logging.NewNop()}
	for _, o := range opts {
		o(j)
	}
	return j
}

func (j *Journal) inTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	err := dbx.WithTx(ctx, j.db, nil, fn)
	if err == nil || errors.Is(err, common.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrStorage, err)
}

// SaveMessage stores an incoming message as unread. A message with the
// same timestamp is replaced.
func (j *Journal) SaveMessage(ctx context.Context, conversation string, typ models.MessageType, body, timestamp string) error {
	m := models.Message{Conversation: conversation, Type: typ, Body: body, Timestamp: timestamp}
	return j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return j.repos.Messages(tx).Save(ctx, m)
	})
}

// SaveOutgoingMessage stores the local echo of a sent message as read.
// The caller guarantees the timestamp is unique; a duplicate fails.
func (j *Journal) SaveOutgoingMessage(ctx context.Context, msg models.OutgoingMessage) error {
	m := models.Message{
		Conversation: msg.To,
		Type:         models.MessageSent,
		Body:         msg.Body,
		Timestamp:    msg.Timestamp,
		Read:         true,
	}
	return j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return j.repos.Messages(tx).Insert(ctx, m)
	})
}

func (j *Journal) RemoveMessage(ctx context.Context, timestamp string) error {
	return j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return j.repos.Messages(tx).Remove(ctx, timestamp)
	})
}

func (j *Journal) MarkConversationAsRead(ctx context.Context, conversation string) error {
	return j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return j.repos.Messages(tx).MarkConversationRead(ctx, conversation)
	})
}

// GetMessages returns one conversation, or all of them when conversation
// is empty, oldest first.
func (j *Journal) GetMessages(ctx context.Context, conversation string) ([]models.Message, error) {
	var result []models.Message
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		result, err = j.repos.Messages(tx).List(ctx, conversation)
		return err
	})
	return result, err
}

// GetLatestMessages returns the newest message of each conversation.
func (j *Journal) GetLatestMessages(ctx context.Context) ([]models.Message, error) {
	var result []models.Message
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		result, err = j.repos.Messages(tx).Latest(ctx)
		return err
	})
	return result, err
}

func (j *Journal) MessageExists(ctx context.Context, timestamp string) (bool, error) {
	var ok bool
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		ok, err = j.repos.Messages(tx).Exists(ctx, timestamp)
		return err
	})
	return ok, err
}

// SaveBoardsMessage stores a board post as unread, replacing every column
// of a post with the same hash. Redelivery of a known post therefore
// marks it unread again.
func (j *Journal) SaveBoardsMessage(ctx context.Context, msg models.BoardMessage) error {
	msg.Read = false
	return j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return j.repos.Boards(tx).Save(ctx, msg)
	})
}

func (j *Journal) MarkBoardsMessageAsRead(ctx context.Context, hash string) error {
	return j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return j.repos.Boards(tx).MarkRead(ctx, hash)
	})
}

// GetBoardsMessages returns the posts of board, newest first. An empty
// board or HomeBoard lists every board.
func (j *Journal) GetBoardsMessages(ctx context.Context, board string) ([]models.BoardMessage, error) {
	if board == HomeBoard {
		board = ""
	}
	var result []models.BoardMessage
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		result, err = j.repos.Boards(tx).List(ctx, board)
		return err
	})
	return result, err
}

// GetLatestBoardMessage returns the newest post timestamp, or
// NoBoardMessages when there are none.
func (j *Journal) GetLatestBoardMessage(ctx context.Context) (string, error) {
	var ts string
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		ts, err = j.repos.Boards(tx).LatestTimestamp(ctx)
		return err
	})
	if err != nil {
		return "", err
	}
	if ts == "" {
		return NoBoardMessages, nil
	}
	return ts, nil
}

func (j *Journal) BoardsMessageExists(ctx context.Context, hash string) (bool, error) {
	var ok bool
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		ok, err = j.repos.Boards(tx).Exists(ctx, hash)
		return err
	})
	return ok, err
}

func (j *Journal) AddPayee(ctx context.Context, p models.Payee) error {
	return j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return j.repos.Payees(tx).Add(ctx, p)
	})
}

// GetPayees returns the address book enriched with the newest message of
// each payee's conversation, most recently active first.
func (j *Journal) GetPayees(ctx context.Context) ([]models.Payee, error) {
	var (
		list   []models.Payee
		latest []models.Message
	)
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if list, err = j.repos.Payees(tx).List(ctx); err != nil {
			return err
		}
		latest, err = j.repos.Messages(tx).Latest(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	byAddress := make(map[string]models.Message, len(latest))
	for _, m := range latest {
		byAddress[m.Conversation] = m
	}

	for i := range list {
		m, ok := byAddress[list[i].Address]
		if !ok {
			list[i].Read = true
			continue
		}
		list[i].LastMessage = m.Body
		list[i].LastMessageTimestamp = m.Timestamp
		list[i].Read = m.Read
	}

	slices.SortStableFunc(list, func(a, b models.Payee) int {
		return cmp.Compare(b.LastMessageTimestamp, a.LastMessageTimestamp)
	})
	return list, nil
}

// RemovePayee deletes the payee named nickname. With cascade set the
// conversation with address is deleted in the same transaction.
func (j *Journal) RemovePayee(ctx context.Context, nickname, address string, cascade bool) error {
	return j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := j.repos.Payees(tx).RemoveByNickname(ctx, nickname); err != nil {
			return err
		}
		if !cascade {
			return nil
		}
		return j.repos.Messages(tx).DeleteByConversation(ctx, address)
	})
}

// RemoveMessages clears private messages and payees. Board posts are kept.
func (j *Journal) RemoveMessages(ctx context.Context) error {
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := j.repos.Messages(tx).Clear(ctx); err != nil {
			return err
		}
		return j.repos.Payees(tx).Clear(ctx)
	})
	if err == nil {
		j.log.Info(ctx, "messages and payees cleared")
	}
	return err
}

func (j *Journal) SaveTransactionDetails(ctx context.Context, d models.TransactionDetail) error {
	return j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return j.repos.TxDetails(tx).Save(ctx, d)
	})
}

func (j *Journal) GetTransactionDetails(ctx context.Context) ([]models.TransactionDetail, error) {
	var result []models.TransactionDetail
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		result, err = j.repos.TxDetails(tx).List(ctx)
		return err
	})
	return result, err
}

// GetKnownTransactions returns the hashes of transactions with details.
func (j *Journal) GetKnownTransactions(ctx context.Context) ([]string, error) {
	var result []string
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		result, err = j.repos.TxDetails(tx).Hashes(ctx)
		return err
	})
	return result, err
}

func (j *Journal) UnreadCounts(ctx context.Context) (models.UnreadCounts, error) {
	var c models.UnreadCounts
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if c.Boards, err = j.repos.Boards(tx).UnreadCount(ctx); err != nil {
			return err
		}
		c.Messages, err = j.repos.Messages(tx).UnreadCount(ctx)
		return err
	})
	return c, err
}

// LoadPreferences returns common.ErrNotFound when the row is missing.
func (j *Journal) LoadPreferences(ctx context.Context) (models.Preferences, error) {
	var p *models.Preferences
	err := j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		p, err = j.repos.Preferences(tx).Get(ctx)
		return err
	})
	if err != nil {
		return models.Preferences{}, err
	}
	return *p, nil
}

func (j *Journal) SavePreferences(ctx context.Context, p models.Preferences) error {
	return j.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return j.repos.Preferences(tx).Save(ctx, p)
	})
}
