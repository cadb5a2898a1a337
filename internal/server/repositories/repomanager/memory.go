package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/categories"
	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/sheets"
	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves process-local repositories. WithTx
// serializes transactional blocks against each other but cannot roll back.
type InMemoryRepositoryManager struct {
	txMu  sync.Mutex
	repos Repos
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{repos: Repos{
		Users:         users.NewMemoryRepository(),
		RefreshTokens: refreshtokens.NewMemoryRepository(),
		Sheets:        sheets.NewMemoryRepository(),
		Categories:    categories.NewMemoryRepository(),
	}}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Ping(context.Context) error { return nil }

func (m *InMemoryRepositoryManager) Repos() Repos { return m.repos }

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repos) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m.repos)
}

func (m *InMemoryRepositoryManager) Close() error { return nil }
