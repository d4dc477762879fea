package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Only the flags listed in the package doc are looked at; everything else in
// args (subcommands, their flags) is filtered out with flagx.FilterArgs.
// Panics on malformed values.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-d", "-f", "-n", "-g", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the store database")
	fs.StringVar(&cfg.FlagsPath, "f", cfg.FlagsPath, "path of the flag store database")
	fs.StringVar(&cfg.NodeListURL, "n", cfg.NodeListURL, "remote node list URL")
	fs.StringVar(&cfg.GroupsListURL, "g", cfg.GroupsListURL, "remote groups list URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "remote request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
