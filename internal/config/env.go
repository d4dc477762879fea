package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "WALLETKEEPER_"

// parseEnv loads envFile into the process environment (a missing file is not
// an error; variables already set win over the file) and copies every
// WALLETKEEPER_* variable that is set into cfg.
//
// Panics on an unparsable duration, like the other loaders.
func parseEnv(cfg *Config, envFile string) {
	_ = godotenv.Load(envFile)

	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	setDuration := func(name string, dst *time.Duration) {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		*dst = d
	}

	setString("DATABASE_PATH", &cfg.DatabasePath)
	setString("FLAGS_PATH", &cfg.FlagsPath)
	setString("NODE_LIST_URL", &cfg.NodeListURL)
	setString("GROUPS_LIST_URL", &cfg.GroupsListURL)
	setDuration("REQUEST_TIMEOUT", &cfg.RequestTimeout)
	setDuration("LIST_CACHE_TTL", &cfg.ListCacheTTL)
	setString("DEFAULT_NODE", &cfg.DefaultNode)
	setString("COIN_NAME", &cfg.CoinName)
	setString("LOG_LEVEL", &cfg.LogLevel)
}
