package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/walletkeeper/internal/flagx"
	"github.com/dmitrijs2005/walletkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "empty" so a partial file only overrides
// what it names.
type JsonConfig struct {
	DatabasePath   *string         `json:"database_path"`
	FlagsPath      *string         `json:"flags_path"`
	NodeListURL    *string         `json:"node_list_url"`
	GroupsListURL  *string         `json:"groups_list_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	ListCacheTTL   *timex.Duration `json:"list_cache_ttl"`
	DefaultNode    *string         `json:"default_node"`
	CoinName       *string         `json:"coin_name"`
	LogLevel       *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config in args.
// Without such a flag nothing changes. Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	copyString := func(src *string, dst *string) {
		if src != nil {
			*dst = *src
		}
	}
	copyString(jc.DatabasePath, &cfg.DatabasePath)
	copyString(jc.FlagsPath, &cfg.FlagsPath)
	copyString(jc.NodeListURL, &cfg.NodeListURL)
	copyString(jc.GroupsListURL, &cfg.GroupsListURL)
	copyString(jc.DefaultNode, &cfg.DefaultNode)
	copyString(jc.CoinName, &cfg.CoinName)
	copyString(jc.LogLevel, &cfg.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ListCacheTTL != nil {
		cfg.ListCacheTTL = jc.ListCacheTTL.Duration
	}
}
