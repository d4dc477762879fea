// Package migrations brings a store file up to the current schema.
//
// The schema version lives in PRAGMA user_version. On every start the
// migrator reads it once and, inside a single transaction, creates missing
// tables, adds any missing columns, seeds the singleton rows, backfills the
// columns that the observed version predates and writes CurrentVersion. A failure rolls everything back, leaving the file at its
// previous version.
package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
)

type step struct {
	name    string
	applies func(version int) bool
	run     func(ctx context.Context, tx dbx.DBTX) error
}

type Migrator struct {
	defaultNode string
	logger      logging.Logger
}

type Option func(*Migrator)

// WithDefaultNode sets the node connection string used for seeding and
// backfilling preferences.node.
func WithDefaultNode(node string) Option {
	return func(m *Migrator) { m.defaultNode = node }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Migrator) { m.logger = l }
}

func New(opts ...Option) *Migrator {
	m := &Migrator{defaultNode: "127.0.0.1:11898:false", logger: logging.NewNop()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Version reads PRAGMA user_version.
func Version(ctx context.Context, db dbx.DBTX) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Run migrates db. Errors wrap common.ErrMigration.
func (m *Migrator) Run(ctx context.Context, db *sql.DB) error {
	from, err := Version(ctx, db)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrMigration, err)
	}

	to := max(from, CurrentVersion)

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, s := range m.steps(to) {
			if !s.applies(from) {
				continue
			}
			if err := s.run(ctx, tx); err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
		}
		return nil
	})
	if err != nil {
		m.logger.Error(ctx, "schema migration failed", "from", from, "error", err)
		return fmt.Errorf("%w: %w", common.ErrMigration, err)
	}

	if from != to {
		m.logger.Info(ctx, "schema migrated", "from", from, "to", to)
	}
	return nil
}

func always(int) bool { return true }

func versionIs(versions ...int) func(int) bool {
	return func(v int) bool {
		for _, x := range versions {
			if v == x {
				return true
			}
		}
		return false
	}
}

func (m *Migrator) steps(target int) []step {
	defaults := models.DefaultPreferences(m.defaultNode)

	return []step{
		{"create base tables", always, execStep(createBaseTables)},
		{"add preferences.auto_optimize", always, addColumn("preferences", "auto_optimize", "BOOLEAN")},
		{"add preferences.auth_method", always, addColumn("preferences", "auth_method", "TEXT")},
		{"add preferences.node", always, addColumn("preferences", "node", "TEXT")},
		{"create journal tables", always, execStep(createJournalTables)},
		{"add messages.read", always, addColumn("messages", "read", "BOOLEAN DEFAULT 1")},
		{"seed blob slot", always, execStep(seedBlobSlot)},
		{"seed preferences", always, execStep(seedPreferences,
			defaults.Currency, defaults.NotificationsEnabled, defaults.ScanCoinbase, defaults.LimitData,
			defaults.Theme, defaults.AuthConfirmation, defaults.AutoOptimize, defaults.AuthMethod, defaults.Node)},
		{"backfill auto_optimize, auth_method, node", versionIs(0), execStep(
			`UPDATE preferences SET auto_optimize = 1, auth_method = ?, node = ? WHERE id = 0`,
			defaults.AuthMethod, defaults.Node)},
		{"backfill node", versionIs(1), execStep(`UPDATE preferences SET node = ? WHERE id = 0`, defaults.Node)},
		{"set schema version", always, execStep(fmt.Sprintf(`PRAGMA user_version = %d`, target))},
	}
}

func execStep(query string, args ...any) func(ctx context.Context, tx dbx.DBTX) error {
	return func(ctx context.Context, tx dbx.DBTX) error {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}
}

// addColumn is a no-op when the column already exists. Column steps run on
// every start, so the shape of the table decides, not the version counter.
func addColumn(table, column, decl string) func(ctx context.Context, tx dbx.DBTX) error {
	return func(ctx context.Context, tx dbx.DBTX) error {
		exists, err := hasColumn(ctx, tx, table, column)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}
		// identifiers are package constants, never caller input
		_, err = tx.ExecContext(ctx, fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, decl))
		return err
	}
}

func hasColumn(ctx context.Context, db dbx.DBTX, table, column string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}
