// Package syncer is the offline-first synchronization engine of the client.
//
// A Session wires five parts together:
//
//   - Monitor: polls the remote store and fires became-online and
//     became-offline edges.
//   - Store: the SQLite cache of sheets and categories, the sync queue,
//     id aliases and metadata.
//   - Queue: the FIFO of changes the remote store has not confirmed. Drain
//     replays it, drops items the remote store rejects for good and stops at
//     the first transient failure.
//   - Reconciler: on start and on every reconnect imports the legacy flat
//     store, drains the queue, fetches canonical data, merges it with the
//     cache and publishes the result to the View.
//   - Router: the entry point for Create, Update, Delete and Read. Online it
//     writes through to the remote store; offline it writes to the cache and
//     the queue and reports PathOffline so the caller can show OfflineNotice.
//
// Conflicts resolve as last writer wins. A sheet created offline carries a
// "local-" id until its queued create lands; the remote id is then recorded as
// an alias and every later reference is rewritten through it.
//
// All mutations and reconcile passes are serialized by one lock per Session.
// View snapshots are copies and safe to keep.
package syncer
