package config

import "time"

// Config holds runtime settings.
//
// DefaultNode is the connection string ("host:port:ssl") written into the
// preferences row on first run and when a migration adds the node column.
type Config struct {
	DatabasePath   string
	FlagsPath      string
	NodeListURL    string
	GroupsListURL  string
	RequestTimeout time.Duration
	ListCacheTTL   time.Duration
	DefaultNode    string
	CoinName       string
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "data.db"
	c.FlagsPath = "flags.db"
	c.NodeListURL = ""
	c.GroupsListURL = ""
	c.RequestTimeout = 5 * time.Second
	c.ListCacheTTL = 10 * time.Minute
	c.DefaultNode = "127.0.0.1:11898:false"
	c.CoinName = "walletkeeper"
	c.LogLevel = "info"
}

// Load constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and the flags in args (without the
// program name). Later sources take precedence over earlier ones.
func Load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
