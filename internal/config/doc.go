// Package config loads runtime configuration for the wallet store and the
// walletdb tool.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables WALLETKEEPER_*, after loading an optional .env
//     file from the working directory (see parseEnv).
//  3. Optional JSON file selected with -c or -config (see parseJson).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   path of the main store database
//	-f string   path of the flag store database
//	-n string   URL of the remote node/cache list
//	-g string   URL of the remote groups list
//	-t int      remote request timeout (seconds)
//
// # JSON schema
//
// Durations accept strings like "5s" or integer nanoseconds:
//
//	{
//	  "database_path": "data.db",
//	  "flags_path": "flags.db",
//	  "node_list_url": "https://example.org/nodes.json",
//	  "groups_list_url": "https://example.org/groups.json",
//	  "request_timeout": "5s",
//	  "list_cache_ttl": "10m",
//	  "default_node": "127.0.0.1:11898:false",
//	  "coin_name": "walletkeeper",
//	  "log_level": "info"
//	}
package config
