package syncer

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/aliases"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/categories"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/queue"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/sheets"
	"github.com/dmitrijs2005/cheatsync/internal/dbx"
)

// Repos is the set of client repositories bound to one connection or
// transaction.
type Repos struct {
	Sheets     sheets.Repository
	Categories categories.Repository
	Queue      queue.Repository
	Aliases    aliases.Repository
	Meta       metadata.Repository
}

func reposOn(db dbx.DBTX) Repos {
	return Repos{
		Sheets:     sheets.NewSQLiteRepository(db),
		Categories: categories.NewSQLiteRepository(db),
		Queue:      queue.NewSQLiteRepository(db),
		Aliases:    aliases.NewSQLiteRepository(db),
		Meta:       metadata.NewSQLiteRepository(db),
	}
}

// Store is the local durable side of a session: cache, queue, aliases and
// metadata in one SQLite database.
type Store struct {
	Repos
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{Repos: reposOn(db), db: db}
}

// InTx runs fn against repositories bound to a single transaction.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, reposOn(tx))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
