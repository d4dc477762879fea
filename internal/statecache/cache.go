// Package statecache keeps an in-memory mirror of the journal and notifies
// observers after each committed change.
//
// A mutation first writes to the journal; a write error is returned and
// nothing else happens. It then re-reads the affected views from the
// journal, replaces each cached collection wholesale and notifies the
// topic. Refresh failures are logged, never returned: the write is
// already committed.
//
// Each view has its own refresh lock held from the journal read to the
// store, so a refresh that starts after a write always installs a view at
// least as new as that write.
package statecache

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/walletkeeper/internal/lists"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

// Journal is the subset of the message journal the cache needs.
type Journal interface {
	SaveMessage(ctx context.Context, conversation string, typ models.MessageType, body, timestamp string) error
	SaveOutgoingMessage(ctx context.Context, msg models.OutgoingMessage) error
	RemoveMessage(ctx context.Context, timestamp string) error
	MarkConversationAsRead(ctx context.Context, conversation string) error
	GetMessages(ctx context.Context, conversation string) ([]models.Message, error)
	GetLatestMessages(ctx context.Context) ([]models.Message, error)

	SaveBoardsMessage(ctx context.Context, msg models.BoardMessage) error
	MarkBoardsMessageAsRead(ctx context.Context, hash string) error
	GetBoardsMessages(ctx context.Context, board string) ([]models.BoardMessage, error)

	AddPayee(ctx context.Context, p models.Payee) error
	GetPayees(ctx context.Context) ([]models.Payee, error)
	RemovePayee(ctx context.Context, nickname, address string, cascade bool) error
	RemoveMessages(ctx context.Context) error

	SaveTransactionDetails(ctx context.Context, d models.TransactionDetail) error
	GetTransactionDetails(ctx context.Context) ([]models.TransactionDetail, error)
	GetKnownTransactions(ctx context.Context) ([]string, error)

	UnreadCounts(ctx context.Context) (models.UnreadCounts, error)
	LoadPreferences(ctx context.Context) (models.Preferences, error)
	SavePreferences(ctx context.Context, p models.Preferences) error
}

type Cache struct {
	journal Journal
	reg     *Registry
	log     logging.Logger

	refresh struct {
		messages, payees, boards, unread, txs, prefs sync.Mutex
	}

	mu            sync.RWMutex
	payees        []models.Payee
	messages      []models.Message
	conversations []models.Message
	board         string
	boardView     string
	boardMessages []models.BoardMessage
	preferences   models.Preferences
	knownTxs      []string
	txDetails     []models.TransactionDetail
	unread        models.UnreadCounts
	nodes         []lists.Node
	caches        []lists.API
	groups        []lists.Group
}

func New(j Journal, reg *Registry, log logging.Logger) *Cache {
	if log == nil {
		log = logging.NewNop()
	}
	if reg == nil {
		reg = NewRegistry(log)
	}
	return &Cache{journal: j, reg: reg, log: log}
}

func (c *Cache) Registry() *Registry {
	return c.reg
}

func (c *Cache) Subscribe(topic Topic, fn Observer) Subscription {
	return c.reg.Subscribe(topic, fn)
}

func (c *Cache) Unsubscribe(sub Subscription) bool {
	return c.reg.Unsubscribe(sub)
}

// Load fills every journal-backed view. Unlike refreshes after a
// mutation, its first failure is returned.
func (c *Cache) Load(ctx context.Context) error {
	board := c.SelectedBoard()

	for _, load := range []func(context.Context) error{
		c.loadPreferences,
		c.loadMessages,
		c.loadPayees,
		func(ctx context.Context) error { return c.loadBoards(ctx, board) },
		c.loadTransactions,
		c.loadUnread,
	} {
		if err := load(ctx); err != nil {
			return err
		}
	}
	return nil
}

// SaveMessage stores an incoming message and refreshes chat and payees.
func (c *Cache) SaveMessage(ctx context.Context, conversation string, typ models.MessageType, body, timestamp string) error {
	if err := c.journal.SaveMessage(ctx, conversation, typ, body, timestamp); err != nil {
		return err
	}
	c.refreshMessages(ctx)
	return nil
}

func (c *Cache) SaveOutgoingMessage(ctx context.Context, msg models.OutgoingMessage) error {
	if err := c.journal.SaveOutgoingMessage(ctx, msg); err != nil {
		return err
	}
	c.refreshMessages(ctx)
	return nil
}

// RemoveMessage notifies even when no message had that timestamp.
func (c *Cache) RemoveMessage(ctx context.Context, timestamp string) error {
	if err := c.journal.RemoveMessage(ctx, timestamp); err != nil {
		return err
	}
	c.refreshMessages(ctx)
	return nil
}

func (c *Cache) MarkConversationAsRead(ctx context.Context, conversation string) error {
	if err := c.journal.MarkConversationAsRead(ctx, conversation); err != nil {
		return err
	}
	c.refreshMessages(ctx)
	return nil
}

// SaveBoardsMessage stores a post and refreshes the board that was
// selected when the call was made.
func (c *Cache) SaveBoardsMessage(ctx context.Context, msg models.BoardMessage) error {
	board := c.SelectedBoard()
	if err := c.journal.SaveBoardsMessage(ctx, msg); err != nil {
		return err
	}
	c.refreshBoards(ctx, board)
	return nil
}

// SaveBoardsMessageSilently stores a post without refreshing or
// notifying. Used while importing a backlog.
func (c *Cache) SaveBoardsMessageSilently(ctx context.Context, msg models.BoardMessage) error {
	return c.journal.SaveBoardsMessage(ctx, msg)
}

func (c *Cache) MarkBoardsMessageAsRead(ctx context.Context, hash string) error {
	board := c.SelectedBoard()
	if err := c.journal.MarkBoardsMessageAsRead(ctx, hash); err != nil {
		return err
	}
	c.refreshBoards(ctx, board)
	return nil
}

// SelectBoard changes the active board. It does not refresh; the next
// board refresh uses the new selection.
func (c *Cache) SelectBoard(board string) {
	c.mu.Lock()
	c.board = board
	c.mu.Unlock()
}

func (c *Cache) SelectedBoard() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.board
}

// RefreshBoards re-reads the currently selected board and notifies.
func (c *Cache) RefreshBoards(ctx context.Context) {
	c.refreshBoards(ctx, c.SelectedBoard())
}

func (c *Cache) AddPayee(ctx context.Context, p models.Payee) error {
	if err := c.journal.AddPayee(ctx, p); err != nil {
		return err
	}
	c.refreshMessages(ctx)
	return nil
}

// RemovePayee deletes the payee and, with cascade, the conversation with
// address.
func (c *Cache) RemovePayee(ctx context.Context, nickname, address string, cascade bool) error {
	if err := c.journal.RemovePayee(ctx, nickname, address, cascade); err != nil {
		return err
	}
	if cascade {
		c.refreshMessages(ctx)
		return nil
	}
	c.refreshPayees(ctx)
	return nil
}

func (c *Cache) AddTransactionDetails(ctx context.Context, d models.TransactionDetail) error {
	if err := c.journal.SaveTransactionDetails(ctx, d); err != nil {
		return err
	}
	if err := c.loadTransactions(ctx); err != nil {
		c.log.Error(ctx, "failed to refresh transactions", "error", err)
	}
	return nil
}

func (c *Cache) SavePreferences(ctx context.Context, p models.Preferences) error {
	if err := c.journal.SavePreferences(ctx, p); err != nil {
		return err
	}
	if err := c.loadPreferences(ctx); err != nil {
		c.log.Error(ctx, "failed to refresh preferences", "error", err)
	}
	return nil
}

// NotifyCall signals a change of call state. Nothing is persisted.
func (c *Cache) NotifyCall(ctx context.Context) {
	c.reg.Notify(ctx, TopicCall)
}

// Reset clears private messages and payees from the journal and drops
// the cached views of both. Board posts stay.
func (c *Cache) Reset(ctx context.Context) error {
	if err := c.journal.RemoveMessages(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.payees = nil
	c.messages = nil
	c.conversations = nil
	c.mu.Unlock()

	c.refreshMessages(ctx)
	return nil
}

// SetLists replaces the remote lists.
func (c *Cache) SetLists(snap lists.Snapshot) {
	c.mu.Lock()
	c.nodes = snap.Nodes
	c.caches = snap.Caches
	c.groups = snap.Groups
	c.mu.Unlock()
}

func (c *Cache) refreshMessages(ctx context.Context) {
	if err := c.loadMessages(ctx); err != nil {
		c.log.Error(ctx, "failed to refresh messages", "error", err)
	}
	c.refreshUnread(ctx)
	c.reg.Notify(ctx, TopicChat)
	c.refreshPayees(ctx)
}

func (c *Cache) refreshPayees(ctx context.Context) {
	if err := c.loadPayees(ctx); err != nil {
		c.log.Error(ctx, "failed to refresh payees", "error", err)
	}
	c.reg.Notify(ctx, TopicPayees)
}

func (c *Cache) refreshBoards(ctx context.Context, board string) {
	if err := c.loadBoards(ctx, board); err != nil {
		c.log.Error(ctx, "failed to refresh board", "board", board, "error", err)
	}
	c.refreshUnread(ctx)
	c.reg.Notify(ctx, TopicBoards)
}

func (c *Cache) refreshUnread(ctx context.Context) {
	if err := c.loadUnread(ctx); err != nil {
		c.log.Error(ctx, "failed to refresh unread counts", "error", err)
	}
}

func (c *Cache) loadMessages(ctx context.Context) error {
	c.refresh.messages.Lock()
	defer c.refresh.messages.Unlock()

	msgs, err := c.journal.GetMessages(ctx, "")
	if err != nil {
		return err
	}
	latest, err := c.journal.GetLatestMessages(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.messages = msgs
	c.conversations = latest
	c.mu.Unlock()
	return nil
}

func (c *Cache) loadPayees(ctx context.Context) error {
	c.refresh.payees.Lock()
	defer c.refresh.payees.Unlock()

	payees, err := c.journal.GetPayees(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.payees = payees
	c.mu.Unlock()
	return nil
}

func (c *Cache) loadBoards(ctx context.Context, board string) error {
	c.refresh.boards.Lock()
	defer c.refresh.boards.Unlock()

	posts, err := c.journal.GetBoardsMessages(ctx, board)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.boardView = board
	c.boardMessages = posts
	c.mu.Unlock()
	return nil
}

func (c *Cache) loadTransactions(ctx context.Context) error {
	c.refresh.txs.Lock()
	defer c.refresh.txs.Unlock()

	details, err := c.journal.GetTransactionDetails(ctx)
	if err != nil {
		return err
	}
	known, err := c.journal.GetKnownTransactions(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.txDetails = details
	c.knownTxs = known
	c.mu.Unlock()
	return nil
}

func (c *Cache) loadUnread(ctx context.Context) error {
	c.refresh.unread.Lock()
	defer c.refresh.unread.Unlock()

	u, err := c.journal.UnreadCounts(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.unread = u
	c.mu.Unlock()
	return nil
}

func (c *Cache) loadPreferences(ctx context.Context) error {
	c.refresh.prefs.Lock()
	defer c.refresh.prefs.Unlock()

	p, err := c.journal.LoadPreferences(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.preferences = p
	c.mu.Unlock()
	return nil
}

func (c *Cache) Payees() []models.Payee {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.payees)
}

// Messages returns every cached private message, oldest first.
func (c *Cache) Messages() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.messages)
}

// Conversation filters the cached messages to one peer.
func (c *Cache) Conversation(address string) []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []models.Message
	for _, m := range c.messages {
		if m.Conversation == address {
			out = append(out, m)
		}
	}
	return out
}

// Conversations returns the newest message of each conversation.
func (c *Cache) Conversations() []models.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.conversations)
}

// BoardMessages returns the cached posts and the board they were read for,
// which may differ from SelectedBoard until the next refresh.
func (c *Cache) BoardMessages() (string, []models.BoardMessage) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.boardView, slices.Clone(c.boardMessages)
}

func (c *Cache) Preferences() models.Preferences {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preferences
}

func (c *Cache) KnownTransactions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.knownTxs)
}

func (c *Cache) TransactionDetails() []models.TransactionDetail {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.txDetails)
}

func (c *Cache) Unread() models.UnreadCounts {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.unread
}

func (c *Cache) Nodes() []lists.Node {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.nodes)
}

func (c *Cache) Caches() []lists.API {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.caches)
}

func (c *Cache) Groups() []lists.Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.groups)
}
