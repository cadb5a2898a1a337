package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/flagx"
)

// parseFlags overlays cfg with the flags it owns:
//
//	-a string   server address and port
//	-i int      online check interval (seconds)
//	-d string   local database path
//	-l string   legacy store path ("" disables the import)
//	-v          verbose logging
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-i", "-d", "-l", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.LegacyStorePath, "l", cfg.LegacyStorePath, "legacy store to import on first start")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
