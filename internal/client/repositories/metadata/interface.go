// Package metadata is a small key/value table for per-installation client
// state: the identity token and one-shot flags such as the legacy import.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyLegacyMigrated = "legacy_migrated"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)

	// Flag reports whether key is set to a non-empty value.
	Flag(ctx context.Context, key string) (bool, error)
	SetFlag(ctx context.Context, key string) error
}
