package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/config"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
	"github.com/dmitrijs2005/walletkeeper/internal/repositories/blob"
	"github.com/dmitrijs2005/walletkeeper/internal/statecache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFetcher map[string]string

func (f staticFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	body, ok := f[url]
	if !ok {
		return nil, common.ErrNetwork
	}
	return []byte(body), nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = filepath.Join(dir, "data.db")
	cfg.FlagsPath = filepath.Join(dir, "flags.db")
	cfg.RequestTimeout = time.Second
	return cfg
}

func openApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	a, err := Open(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestLoadWallet_NotFoundBeforeSave(t *testing.T) {
	a := openApp(t, testConfig(t))

	_, err := a.LoadWallet(context.Background())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveLoadWallet_AcrossChunksAndReopen(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	payload := strings.Repeat("wallet-json-é", 100)

	a, err := Open(ctx, cfg, WithBlobOptions(blob.WithChunkSize(64)))
	require.NoError(t, err)
	require.NoError(t, a.SaveWallet(ctx, payload))
	require.NoError(t, a.Close())

	b := openApp(t, cfg)
	got, err := b.LoadWallet(ctx)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestLoadWallet_FlagSetButSlotEmpty(t *testing.T) {
	a := openApp(t, testConfig(t))
	ctx := context.Background()
	require.NoError(t, a.flags.SetHaveWallet(ctx, true))

	_, err := a.LoadWallet(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLoadWallet_StorageFailureIsDistinct(t *testing.T) {
	a := openApp(t, testConfig(t))
	ctx := context.Background()
	require.NoError(t, a.SaveWallet(ctx, "w"))

	_, err := a.db.Exec(`DROP TABLE wallet_blob`)
	require.NoError(t, err)

	_, err = a.LoadWallet(ctx)
	require.ErrorIs(t, err, common.ErrStorage)
	require.NotErrorIs(t, err, common.ErrNotFound)
}

func TestOpen_MigrationFailure(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.DatabasePath, []byte(strings.Repeat("not a database ", 512)), 0o600))

	_, err := Open(context.Background(), cfg)
	require.ErrorIs(t, err, common.ErrMigration)
}

func TestDeleteDatabase(t *testing.T) {
	cfg := testConfig(t)
	a := openApp(t, cfg)
	ctx := context.Background()
	require.NoError(t, a.SaveWallet(ctx, "w"))

	require.NoError(t, a.DeleteDatabase(ctx))
	_, err := os.Stat(cfg.DatabasePath)
	assert.ErrorIs(t, err, os.ErrNotExist)

	have, err := a.flags.HaveWallet(ctx)
	require.NoError(t, err)
	assert.False(t, have)

	_, err = a.LoadWallet(ctx)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, a.DeleteDatabase(ctx), ErrClosed)
}

func TestInit_LoadsStateAndLists(t *testing.T) {
	cfg := testConfig(t)
	cfg.NodeListURL = "http://nodes"
	cfg.DefaultNode = "seed:1:true"
	fetcher := staticFetcher{"http://nodes": `{"nodes":[{"name":"remote"}]}`}

	a := openApp(t, cfg, WithFetcher(fetcher))
	ctx := context.Background()
	require.NoError(t, a.Journal().AddPayee(ctx, models.Payee{Nickname: "n", Address: "a"}))

	require.NoError(t, a.Init(ctx))

	c := a.Cache()
	assert.Len(t, c.Payees(), 1)
	assert.Equal(t, "seed:1:true", c.Preferences().Node)
	assert.Equal(t, "remote", c.Nodes()[0].Name)
	assert.NotEmpty(t, c.Caches())
	assert.NotEmpty(t, c.Groups())
}

func TestReloadLists_BypassesCachedDocuments(t *testing.T) {
	cfg := testConfig(t)
	cfg.NodeListURL = "http://nodes"
	fetcher := staticFetcher{"http://nodes": `{"nodes":[{"name":"old"}]}`}
	a := openApp(t, cfg, WithFetcher(fetcher))
	ctx := context.Background()

	assert.Equal(t, "old", a.RefreshLists(ctx).Nodes[0].Name)

	fetcher["http://nodes"] = `{"nodes":[{"name":"new"}]}`
	assert.Equal(t, "old", a.RefreshLists(ctx).Nodes[0].Name)

	assert.Equal(t, "new", a.ReloadLists(ctx).Nodes[0].Name)
	assert.Equal(t, "new", a.Cache().Nodes()[0].Name)
}

func TestReset_NotifiesAndClears(t *testing.T) {
	a := openApp(t, testConfig(t))
	ctx := context.Background()
	require.NoError(t, a.Cache().SaveMessage(ctx, "peer", models.MessageReceived, "hi", "1"))

	var payees int
	a.Cache().Subscribe(statecache.TopicPayees, func(context.Context) error {
		payees++
		return nil
	})
	require.NoError(t, a.Reset(ctx))

	assert.Equal(t, 1, payees)
	msgs, err := a.Journal().GetMessages(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestClose_Twice(t *testing.T) {
	a, err := Open(context.Background(), testConfig(t))
	require.NoError(t, err)
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
	assert.ErrorIs(t, a.Init(context.Background()), ErrClosed)
}
