package journal

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/migrations"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJournal(t *testing.T) *Journal {
	t.Helper()
	ctx := context.Background()
	db, err := dbx.Open(ctx, filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.New(migrations.WithDefaultNode("node:1:false")).Run(ctx, db))
	return New(db, repomanager.NewSQLiteRepositoryManager())
}

func TestSaveMessage_DuplicateTimestampLastWriteWins(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	require.NoError(t, j.SaveMessage(ctx, "alice", models.MessageReceived, "first", "T"))
	require.NoError(t, j.SaveMessage(ctx, "alice", models.MessageReceived, "second", "T"))

	got, err := j.GetMessages(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Body)
	assert.False(t, got[0].Read)
}

func TestSaveOutgoingMessage(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	out := models.OutgoingMessage{To: "bob", Body: "hi", Timestamp: "10"}
	require.NoError(t, j.SaveOutgoingMessage(ctx, out))

	got, err := j.GetMessages(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Message{Conversation: "bob", Type: models.MessageSent, Body: "hi", Timestamp: "10", Read: true}, got[0])

	err = j.SaveOutgoingMessage(ctx, out)
	require.ErrorIs(t, err, common.ErrStorage)
}

func TestGetLatestMessages_OnePerConversation(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	for _, m := range []struct{ conv, ts string }{{"alice", "1"}, {"alice", "2"}, {"alice", "5"}, {"bob", "3"}} {
		require.NoError(t, j.SaveMessage(ctx, m.conv, models.MessageReceived, "b"+m.ts, m.ts))
	}

	latest, err := j.GetLatestMessages(ctx)
	require.NoError(t, err)
	got := map[string]string{}
	for _, m := range latest {
		got[m.Conversation] = m.Timestamp
	}
	assert.Equal(t, map[string]string{"alice": "5", "bob": "3"}, got)
	assert.Len(t, latest, 2)
}

func TestMarkConversationAsRead(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	require.NoError(t, j.SaveMessage(ctx, "alice", models.MessageReceived, "", "1"))
	require.NoError(t, j.SaveMessage(ctx, "alice", models.MessageReceived, "", "2"))
	require.NoError(t, j.SaveMessage(ctx, "bob", models.MessageReceived, "", "3"))

	require.NoError(t, j.MarkConversationAsRead(ctx, "alice"))

	all, err := j.GetMessages(ctx, "")
	require.NoError(t, err)
	for _, m := range all {
		assert.Equal(t, m.Conversation == "alice", m.Read, m.Timestamp)
	}

	c, err := j.UnreadCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.UnreadCounts{Messages: 1}, c)
}

func TestRemoveMessage_IdempotentAndExists(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	require.NoError(t, j.SaveMessage(ctx, "alice", models.MessageReceived, "", "1"))
	ok, err := j.MessageExists(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, j.RemoveMessage(ctx, "1"))
	require.NoError(t, j.RemoveMessage(ctx, "1"))

	ok, err = j.MessageExists(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemovePayee_Cascade(t *testing.T) {
	tests := []struct {
		name         string
		cascade      bool
		wantMessages int
	}{
		{name: "cascade deletes conversation", cascade: true, wantMessages: 1},
		{name: "no cascade keeps conversation", cascade: false, wantMessages: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := newJournal(t)
			ctx := context.Background()

			require.NoError(t, j.AddPayee(ctx, models.Payee{Nickname: "Alice", Address: "addrA"}))
			require.NoError(t, j.AddPayee(ctx, models.Payee{Nickname: "Bob", Address: "addrB"}))
			require.NoError(t, j.SaveMessage(ctx, "addrA", models.MessageReceived, "", "1"))
			require.NoError(t, j.SaveMessage(ctx, "addrA", models.MessageReceived, "", "2"))
			require.NoError(t, j.SaveMessage(ctx, "addrB", models.MessageReceived, "", "3"))

			require.NoError(t, j.RemovePayee(ctx, "Alice", "addrA", tt.cascade))

			payees, err := j.GetPayees(ctx)
			require.NoError(t, err)
			require.Len(t, payees, 1)
			assert.Equal(t, "Bob", payees[0].Nickname)

			msgs, err := j.GetMessages(ctx, "")
			require.NoError(t, err)
			assert.Len(t, msgs, tt.wantMessages)
		})
	}
}

func TestGetPayees_EnrichedAndSorted(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	require.NoError(t, j.AddPayee(ctx, models.Payee{Nickname: "quiet", Address: "addrQ"}))
	require.NoError(t, j.AddPayee(ctx, models.Payee{Nickname: "old", Address: "addrO"}))
	require.NoError(t, j.AddPayee(ctx, models.Payee{Nickname: "new", Address: "addrN"}))
	require.NoError(t, j.SaveMessage(ctx, "addrO", models.MessageReceived, "old msg", "100"))
	require.NoError(t, j.SaveOutgoingMessage(ctx, models.OutgoingMessage{To: "addrN", Body: "new msg", Timestamp: "200"}))

	payees, err := j.GetPayees(ctx)
	require.NoError(t, err)
	require.Len(t, payees, 3)

	assert.Equal(t, "new", payees[0].Nickname)
	assert.Equal(t, "new msg", payees[0].LastMessage)
	assert.Equal(t, "200", payees[0].LastMessageTimestamp)
	assert.True(t, payees[0].Read)

	assert.Equal(t, "old", payees[1].Nickname)
	assert.False(t, payees[1].Read)

	assert.Equal(t, "quiet", payees[2].Nickname)
	assert.Empty(t, payees[2].LastMessage)
	assert.True(t, payees[2].Read)
}

func TestRemoveMessages_KeepsBoards(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	require.NoError(t, j.AddPayee(ctx, models.Payee{Nickname: "a", Address: "x"}))
	require.NoError(t, j.SaveMessage(ctx, "x", models.MessageReceived, "", "1"))
	require.NoError(t, j.SaveBoardsMessage(ctx, models.BoardMessage{Board: "b", Hash: "h", Timestamp: "1"}))

	require.NoError(t, j.RemoveMessages(ctx))

	msgs, err := j.GetMessages(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, msgs)
	payees, err := j.GetPayees(ctx)
	require.NoError(t, err)
	assert.Empty(t, payees)
	posts, err := j.GetBoardsMessages(ctx, "")
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestBoards_FilterOrderAndHome(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	ts, err := j.GetLatestBoardMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, NoBoardMessages, ts)

	for _, p := range []models.BoardMessage{
		{Board: "a", Timestamp: "1", Hash: "h1"},
		{Board: "b", Timestamp: "3", Hash: "h3"},
		{Board: "a", Timestamp: "2", Hash: "h2"},
	} {
		require.NoError(t, j.SaveBoardsMessage(ctx, p))
	}

	order := func(ps []models.BoardMessage) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Timestamp)
		}
		return out
	}

	for _, board := range []string{"", HomeBoard} {
		all, err := j.GetBoardsMessages(ctx, board)
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "2", "1"}, order(all), board)
	}

	a, err := j.GetBoardsMessages(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, order(a))

	quoted, err := j.GetBoardsMessages(ctx, "a' OR '1'='1")
	require.NoError(t, err)
	assert.Empty(t, quoted)

	ts, err = j.GetLatestBoardMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "3", ts)
}

func TestSaveBoardsMessage_RedeliveryIsIdempotent(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	post := models.BoardMessage{Board: "a", Timestamp: "1", Hash: "h1", Body: "x", Read: true}
	require.NoError(t, j.SaveBoardsMessage(ctx, post))
	require.NoError(t, j.MarkBoardsMessageAsRead(ctx, "h1"))
	require.NoError(t, j.SaveBoardsMessage(ctx, post))

	ok, err := j.BoardsMessageExists(ctx, "h1")
	require.NoError(t, err)
	assert.True(t, ok)

	all, err := j.GetBoardsMessages(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Read)

	c, err := j.UnreadCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Boards)
}

func TestTransactionDetails(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	require.NoError(t, j.SaveTransactionDetails(ctx, models.TransactionDetail{Hash: "t1", Memo: "m"}))
	require.NoError(t, j.SaveTransactionDetails(ctx, models.TransactionDetail{Hash: "t2"}))

	details, err := j.GetTransactionDetails(ctx)
	require.NoError(t, err)
	assert.Len(t, details, 2)

	known, err := j.GetKnownTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, known)
}

func TestPreferences_RoundTrip(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	p, err := j.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPreferences("node:1:false"), p)

	p.Theme = models.ThemeLight
	p.Language = "de"
	require.NoError(t, j.SavePreferences(ctx, p))

	got, err := j.LoadPreferences(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestConcurrentSaves_AllCommitted(t *testing.T) {
	j := newJournal(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ts := string(rune('a' + i))
			assert.NoError(t, j.SaveMessage(ctx, "peer", models.MessageReceived, ts, ts))
		}(i)
	}
	wg.Wait()

	msgs, err := j.GetMessages(ctx, "peer")
	require.NoError(t, err)
	assert.Len(t, msgs, 20)
}

func TestStorageFailure_WrappedAndRolledBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM payees").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM messages").WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	j := New(db, repomanager.NewSQLiteRepositoryManager())
	err = j.RemovePayee(context.Background(), "alice", "addrA", true)
	require.ErrorIs(t, err, common.ErrStorage)
	require.ErrorContains(t, err, "disk I/O error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginFailure_IsStorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	j := New(db, repomanager.NewSQLiteRepositoryManager())
	_, err = j.GetMessages(context.Background(), "")
	require.ErrorIs(t, err, common.ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLoadPreferences_MissingIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM preferences").WillReturnRows(sqlmock.NewRows([]string{"currency"}))
	mock.ExpectRollback()

	j := New(db, repomanager.NewSQLiteRepositoryManager())
	_, err = j.LoadPreferences(context.Background())
	require.ErrorIs(t, err, common.ErrNotFound)
	require.NotErrorIs(t, err, common.ErrStorage)
	require.NoError(t, mock.ExpectationsWereMet())
}
