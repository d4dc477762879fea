// Package repomanager builds repositories bound to a given handle, so a
// service can use the same repositories on *sql.DB or inside a transaction.
package repomanager

import (
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/boards"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/messages"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/payees"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/preferences"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/txdetails"
)

type RepositoryManager interface {
	Messages(db dbx.DBTX) messages.Repository
	Boards(db dbx.DBTX) boards.Repository
	Payees(db dbx.DBTX) payees.Repository
	Preferences(db dbx.DBTX) preferences.Repository
	TxDetails(db dbx.DBTX) txdetails.Repository
}
