// Package repomanager vends the server repositories bound either to Postgres
// or to process memory, plus the transaction and migration hooks the
// services need.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/categories"
	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/sheets"
	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/users"
)

// Repos is one consistent set of repositories, bound to the same connection
// or transaction.
type Repos struct {
	Users         users.Repository
	RefreshTokens refreshtokens.Repository
	Sheets        sheets.Repository
	Categories    categories.Repository
}

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
	Repos() Repos
	// WithTx runs fn with repositories bound to a single transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
	Close() error
}
