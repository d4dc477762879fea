// Command walletdb inspects and maintains a wallet store: it migrates the
// schema, exports and imports the wallet blob, and prints the journal as
// JSON.
//
// Store locations come from the usual configuration layers: defaults,
// WALLETKEEPER_* environment variables (and .env), a JSON file given with
// -c, and the short flags -d -f -n -g -t.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/walletkeeper/internal/app"
	"github.com/dmitrijs2005/walletkeeper/internal/config"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/urfave/cli"
)

var version = "dev"

type metadata struct {
	ctx context.Context
	cfg *config.Config
	log logging.Logger
	app *app.App
	w   io.Writer
	e   io.Writer
}

func main() {
	if err := run(os.Args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, w, e io.Writer) error {
	cfg := config.Load(args[1:])
	m := &metadata{
		ctx: context.Background(),
		cfg: cfg,
		log: logging.NewTextLogger(e, cfg.LogLevel),
		w:   w,
		e:   e,
	}

	a := cli.NewApp()
	a.Name = "walletdb"
	a.Usage = "inspect and maintain a wallet store"
	a.Version = version
	a.Writer = w
	a.ErrWriter = e

	// values are read by config.Load; these only make the parser accept them
	a.Flags = []cli.Flag{
		cli.StringFlag{Name: "c, config", Usage: "JSON configuration `FILE`"},
		cli.StringFlag{Name: "d", Usage: "store database `PATH`"},
		cli.StringFlag{Name: "f", Usage: "flag store database `PATH`"},
		cli.StringFlag{Name: "n", Usage: "remote node list `URL`"},
		cli.StringFlag{Name: "g", Usage: "remote groups list `URL`"},
		cli.IntFlag{Name: "t", Usage: "remote request timeout in `SECONDS`"},
	}
	a.Commands = m.commands()

	a.Before = func(c *cli.Context) error {
		if c.NArg() == 0 {
			return nil
		}
		opened, err := app.Open(m.ctx, m.cfg, app.WithLogger(m.log))
		if err != nil {
			return err
		}
		m.app = opened
		return nil
	}
	a.After = func(c *cli.Context) error {
		if m.app == nil {
			return nil
		}
		return m.app.Close()
	}

	return a.Run(args)
}
