package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/journal"
	"github.com/dmitrijs2005/walletkeeper/internal/models"
	"github.com/urfave/cli"
)

func (m *metadata) commands() []cli.Command {
	return []cli.Command{
		{
			Name:   "migrate",
			Usage:  "migrate the store and print its schema version",
			Action: m.runMigrate,
		},
		{
			Name:  "wallet",
			Usage: "export, import or delete the stored wallet",
			Subcommands: []cli.Command{
				{
					Name:  "export",
					Usage: "write the stored wallet to a file or stdout",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "out", Usage: "output `FILE` (default stdout)"},
					},
					Action: m.runWalletExport,
				},
				{
					Name:  "import",
					Usage: "replace the stored wallet with the contents of a file",
					Flags: []cli.Flag{
						cli.StringFlag{Name: "in", Usage: "*input `FILE`"},
					},
					Action: m.runWalletImport,
				},
				{
					Name:   "delete",
					Usage:  "clear the wallet flag and delete the store file",
					Action: m.runWalletDelete,
				},
			},
		},
		{
			Name:  "prefs",
			Usage: "print the preferences",
			Subcommands: []cli.Command{
				{
					Name:      "set-node",
					Usage:     "change the daemon connection string",
					ArgsUsage: "HOST:PORT[:SSL]",
					Action:    m.runPrefsSetNode,
				},
			},
			Action: m.runPrefs,
		},
		{
			Name:   "conversations",
			Usage:  "print the newest message of every conversation",
			Action: m.runConversations,
		},
		{
			Name:  "messages",
			Usage: "print private messages, oldest first",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "conversation", Usage: "only the conversation with `ADDRESS`"},
			},
			Action: m.runMessages,
		},
		{
			Name:  "boards",
			Usage: "print board posts, newest first",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "board", Value: journal.HomeBoard, Usage: "board `NAME`"},
			},
			Action: m.runBoards,
		},
		{
			Name:   "payees",
			Usage:  "print the address book with message previews",
			Action: m.runPayees,
		},
		{
			Name:   "unread",
			Usage:  "print unread counters",
			Action: m.runUnread,
		},
		{
			Name:   "transactions",
			Usage:  "print transaction details",
			Action: m.runTransactions,
		},
		{
			Name:   "lists",
			Usage:  "fetch the node, cache and group lists",
			Flags: []cli.Flag{
				cli.BoolFlag{Name: "refresh", Usage: "ignore cached lists"},
			},
			Action: m.runLists,
		},
		{
			Name:   "reset",
			Usage:  "delete private messages and payees",
			Action: m.runReset,
		},
	}
}

func (m *metadata) runMigrate(c *cli.Context) error {
	v, err := m.app.SchemaVersion(m.ctx)
	if err != nil {
		return err
	}
	return printJson(m.w, map[string]any{"database": m.cfg.DatabasePath, "version": v})
}

func (m *metadata) runWalletExport(c *cli.Context) error {
	payload, err := m.app.LoadWallet(m.ctx)
	if errors.Is(err, common.ErrNotFound) {
		return errors.New("no wallet stored")
	}
	if err != nil {
		return err
	}

	out := c.String("out")
	if out == "" {
		_, err = io.WriteString(m.w, payload)
		return err
	}
	if err := os.WriteFile(out, []byte(payload), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}

func (m *metadata) runWalletImport(c *cli.Context) error {
	in := c.String("in")
	if in == "" {
		return errors.New("--in is required")
	}
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", in, err)
	}
	if err := m.app.SaveWallet(m.ctx, string(data)); err != nil {
		return err
	}
	return printJson(m.w, map[string]any{"imported": len(data)})
}

func (m *metadata) runWalletDelete(c *cli.Context) error {
	return m.app.DeleteDatabase(m.ctx)
}

func (m *metadata) runPrefs(c *cli.Context) error {
	p, err := m.app.Journal().LoadPreferences(m.ctx)
	if err != nil {
		return err
	}
	return printJson(m.w, p)
}

func (m *metadata) runPrefsSetNode(c *cli.Context) error {
	node, err := models.ParseNode(c.Args().First())
	if err != nil {
		return err
	}

	ctx := m.ctx
	p, err := m.app.Journal().LoadPreferences(ctx)
	if err != nil {
		return err
	}
	p.Node = node.String()
	if err := m.app.Journal().SavePreferences(ctx, p); err != nil {
		return err
	}
	return printJson(m.w, p)
}

func (m *metadata) runConversations(c *cli.Context) error {
	msgs, err := m.app.Journal().GetLatestMessages(m.ctx)
	if err != nil {
		return err
	}
	return printJson(m.w, nonNil(msgs))
}

func (m *metadata) runMessages(c *cli.Context) error {
	msgs, err := m.app.Journal().GetMessages(m.ctx, c.String("conversation"))
	if err != nil {
		return err
	}
	return printJson(m.w, nonNil(msgs))
}

func (m *metadata) runBoards(c *cli.Context) error {
	posts, err := m.app.Journal().GetBoardsMessages(m.ctx, c.String("board"))
	if err != nil {
		return err
	}
	return printJson(m.w, nonNil(posts))
}

func (m *metadata) runPayees(c *cli.Context) error {
	payees, err := m.app.Journal().GetPayees(m.ctx)
	if err != nil {
		return err
	}
	return printJson(m.w, nonNil(payees))
}

func (m *metadata) runUnread(c *cli.Context) error {
	u, err := m.app.Journal().UnreadCounts(m.ctx)
	if err != nil {
		return err
	}
	return printJson(m.w, u)
}

func (m *metadata) runTransactions(c *cli.Context) error {
	details, err := m.app.Journal().GetTransactionDetails(m.ctx)
	if err != nil {
		return err
	}
	return printJson(m.w, nonNil(details))
}

func (m *metadata) runLists(c *cli.Context) error {
	if c.Bool("refresh") {
		return printJson(m.w, m.app.ReloadLists(m.ctx))
	}
	return printJson(m.w, m.app.RefreshLists(m.ctx))
}

func (m *metadata) runReset(c *cli.Context) error {
	return m.app.Reset(m.ctx)
}
