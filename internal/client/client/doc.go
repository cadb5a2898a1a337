// Package client contains the client-side building blocks that sit below the
// sync engine.
//
// # Overview
//
// The package provides:
//  1. The RemoteStore contract the engine uses to reach the authoritative
//     store: fetch/get/create/update/delete for sheets, fetch/create/delete
//     for custom categories, and Ping.
//  2. A gRPC implementation (GRPCClient) that establishes an anonymous
//     identity on first use, injects the token through an interceptor and
//     maps gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens the
//     SQLite cache and applies the embedded goose migrations.
//
// # Error Handling
//
// ErrUnavailable is transient: the engine keeps the change queued and tries
// again on the next reconnect. ErrNotFound, ErrInvalid and ErrUnauthorized are
// permanent for the call that produced them.
package client
