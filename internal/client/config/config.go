package config

import "time"

// Config holds runtime settings for the cheatsync client.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	// DatabasePath is the SQLite file holding the cache and the sync queue.
	DatabasePath string
	// LegacyStorePath is the flat JSON store written by earlier releases.
	// It is imported once and removed.
	LegacyStorePath string
	Verbose         bool
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.DatabasePath = "cheatsync.db"
	c.LegacyStorePath = "cheatsheets.json"
}

// LoadConfig applies defaults, then the JSON file (if any), then flags.
// Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
