package config

import (
	"os"

	"github.com/dmitrijs2005/cheatsync/internal/flagx"
	"github.com/dmitrijs2005/cheatsync/internal/timex"
)

// JsonConfig is the on-disk shape. Fields left out of the file keep the value
// they already had.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DatabasePath        *string         `json:"database_path"`
	LegacyStorePath     *string         `json:"legacy_store_path"`
	Verbose             *bool           `json:"verbose"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics on read
// or decode errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	var jc JsonConfig
	if err := flagx.ReadJSON(path, &jc); err != nil {
		panic(err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.LegacyStorePath != nil {
		cfg.LegacyStorePath = *jc.LegacyStorePath
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
}
