// Package app wires the store, the journal, the state cache, the flag
// store and the remote lists into one explicitly constructed context.
// Nothing is initialised at import time; Open and Close bracket its
// lifetime.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/config"
	"github.com/dmitrijs2005/walletkeeper/internal/dbx"
	"github.com/dmitrijs2005/walletkeeper/internal/flags"
	"github.com/dmitrijs2005/walletkeeper/internal/journal"
	"github.com/dmitrijs2005/walletkeeper/internal/lists"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/migrations"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/blob"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/walletkeeper/internal/statecache"
)

// ErrClosed is returned by operations on a deleted or closed store.
var ErrClosed = errors.New("store is closed")

type App struct {
	cfg *config.Config
	log logging.Logger

	db      *sql.DB
	flags   *flags.Store
	blob    blob.Repository
	journal *journal.Journal
	cache   *statecache.Cache
	lists   *lists.Service
}

type options struct {
	log     logging.Logger
	fetcher lists.Fetcher
	blob    []blob.Option
}

type Option func(*options)

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithFetcher replaces the HTTP fetcher used for remote lists.
func WithFetcher(f lists.Fetcher) Option {
	return func(o *options) { o.fetcher = f }
}

func WithBlobOptions(opts ...blob.Option) Option {
	return func(o *options) { o.blob = append(o.blob, opts...) }
}

// Open opens the store at cfg.DatabasePath, migrates it and opens the
// flag store. A migration failure is fatal and wraps common.ErrMigration.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{log: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fetcher == nil {
		o.fetcher = lists.NewHTTPFetcher(&http.Client{})
	}

	db, err := dbx.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	m := migrations.New(migrations.WithDefaultNode(cfg.DefaultNode), migrations.WithLogger(o.log))
	if err := m.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	fl, err := flags.Open(ctx, cfg.FlagsPath, cfg.CoinName)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	ls, err := lists.New(o.fetcher, cfg.NodeListURL, cfg.GroupsListURL,
		lists.WithTimeout(cfg.RequestTimeout),
		lists.WithTTL(cfg.ListCacheTTL),
		lists.WithLogger(o.log.With("component", "lists")))
	if err != nil {
		_ = fl.Close()
		_ = db.Close()
		return nil, err
	}

	j := journal.New(db, repomanager.NewSQLiteRepositoryManager(), journal.WithLogger(o.log))
	cacheLog := o.log.With("component", "statecache")

	return &App{
		cfg:     cfg,
		log:     o.log,
		db:      db,
		flags:   fl,
		blob:    blob.NewSQLiteRepository(db, o.blob...),
		journal: j,
		cache:   statecache.New(j, statecache.NewRegistry(cacheLog), cacheLog),
		lists:   ls,
	}, nil
}

// Close drops every subscription and closes both stores.
func (a *App) Close() error {
	a.cache.Registry().Close()

	var errs []error
	if a.flags != nil {
		errs = append(errs, a.flags.Close())
		a.flags = nil
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	return errors.Join(errs...)
}

// SchemaVersion returns the store's PRAGMA user_version.
func (a *App) SchemaVersion(ctx context.Context) (int, error) {
	if a.db == nil {
		return 0, ErrClosed
	}
	return migrations.Version(ctx, a.db)
}

func (a *App) Journal() *journal.Journal {
	return a.journal
}

func (a *App) Cache() *statecache.Cache {
	return a.cache
}

func (a *App) Lists() *lists.Service {
	return a.lists
}

// Init fills the state cache and fetches the remote lists. List failures
// fall back to bundled data and never fail Init.
func (a *App) Init(ctx context.Context) error {
	if a.db == nil {
		return ErrClosed
	}
	if err := a.cache.Load(ctx); err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	a.RefreshLists(ctx)
	return nil
}

// RefreshLists fetches every remote list and stores it in the cache.
func (a *App) RefreshLists(ctx context.Context) lists.Snapshot {
	snap := a.lists.Refresh(ctx)
	a.cache.SetLists(snap)
	return snap
}

// ReloadLists is RefreshLists without the cached documents.
func (a *App) ReloadLists(ctx context.Context) lists.Snapshot {
	a.lists.Invalidate()
	return a.RefreshLists(ctx)
}

// SaveWallet stores the serialized wallet and records that one exists.
func (a *App) SaveWallet(ctx context.Context, payload string) error {
	if a.db == nil {
		return ErrClosed
	}
	if err := a.blob.Save(ctx, payload); err != nil {
		a.log.Error(ctx, "failed to save wallet", "error", err)
		return err
	}
	if err := a.flags.SetHaveWallet(ctx, true); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return nil
}

// LoadWallet returns the stored wallet. common.ErrNotFound means a new
// wallet should be created; common.ErrStorage means the stored one could
// not be read and must be reported.
func (a *App) LoadWallet(ctx context.Context) (string, error) {
	if a.db == nil {
		return "", ErrClosed
	}

	have, err := a.flags.HaveWallet(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	if !have {
		a.log.Info(ctx, "no wallet saved")
		return "", common.ErrNotFound
	}

	payload, err := a.blob.Load(ctx)
	switch {
	case errors.Is(err, common.ErrNotFound):
		a.log.Info(ctx, "wallet flag set but no wallet stored")
		return "", err
	case err != nil:
		a.log.Error(ctx, "failed to load wallet", "error", err)
		return "", err
	}
	return payload, nil
}

// DeleteDatabase clears the wallet flag and removes the store file. The
// App is unusable afterwards except for Close.
func (a *App) DeleteDatabase(ctx context.Context) error {
	if a.db == nil {
		return ErrClosed
	}
	if err := a.flags.SetHaveWallet(ctx, false); err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	a.cache.Registry().Close()
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("%w: failed to close store: %w", common.ErrStorage, err)
	}
	a.db = nil

	for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
		err := os.Remove(a.cfg.DatabasePath + suffix)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: failed to delete store: %w", common.ErrStorage, err)
		}
	}
	a.log.Info(ctx, "store deleted", "path", a.cfg.DatabasePath)
	return nil
}

// Reset clears private messages and payees, as on logout.
func (a *App) Reset(ctx context.Context) error {
	if a.db == nil {
		return ErrClosed
	}
	return a.cache.Reset(ctx)
}
