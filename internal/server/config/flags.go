package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/cheatsync/internal/flagx"
)

// parseFlags overlays config with the server flags:
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-h string   HTTP health bind address (e.g. ":8080")
//	-d string   PostgreSQL DSN ("" for the in-memory store)
//	-k string   token signing key
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-h", "-d", "-k"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run the gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "h", config.EndpointAddrHTTP, "address and port to run the health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "k", config.SecretKey, "token signing key")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
