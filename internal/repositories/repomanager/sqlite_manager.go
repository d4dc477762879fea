package repomanager

import (
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/boards"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/messages"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/payees"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/preferences"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/txdetails"
)

type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Messages(db dbx.DBTX) messages.Repository {
	return messages.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Boards(db dbx.DBTX) boards.Repository {
	return boards.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Payees(db dbx.DBTX) payees.Repository {
	return payees.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Preferences(db dbx.DBTX) preferences.Repository {
	return preferences.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) TxDetails(db dbx.DBTX) txdetails.Repository {
	return txdetails.NewSQLiteRepository(db)
}
