// Package cli is the interactive cheatsync client.
//
// App wires the configuration, the local SQLite cache, the gRPC remote store
// and a syncer.Session, then serves a line-oriented REPL. Every command works
// offline; changes made while the server is unreachable are queued and
// pushed when it comes back, and the prompt shows the connection mode and
// the number of queued changes.
package cli
