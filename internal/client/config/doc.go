// Package config loads runtime configuration for the cheatsync client.
//
// Sources, in order of precedence (lowest first):
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file given with -c or -config.
//  3. Command-line flags.
//
// Supported flags
//
//	-a string   address:port of the sync server
//	-i int      online status check interval (seconds)
//	-d string   local SQLite database path
//	-l string   legacy JSON store to import once
//	-v          verbose logging
//
// JSON intervals use timex.Duration, so "3s" and integer nanoseconds both
// work:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_path": "/home/me/.cheatsync/cache.db",
//	  "legacy_store_path": ""
//	}
package config
