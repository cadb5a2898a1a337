package client

import (
	"context"

	"github.com/dmitrijs2005/cheatsync/internal/models"
)

// RemoteStore is the authoritative store the sync engine talks to.
type RemoteStore interface {
	Ping(ctx context.Context) error
	Close() error

	FetchSheets(ctx context.Context) ([]models.Sheet, error)
	GetSheet(ctx context.Context, id string) (models.Sheet, error)
	CreateSheet(ctx context.Context, draft models.SheetDraft) (models.Sheet, error)
	UpdateSheet(ctx context.Context, id string, patch models.SheetPatch) (models.Sheet, error)
	DeleteSheet(ctx context.Context, id string) error

	FetchCategories(ctx context.Context) ([]models.CustomCategory, error)
	CreateCategory(ctx context.Context, draft models.CategoryDraft) (models.CustomCategory, error)
	DeleteCategory(ctx context.Context, id string) error
}

// TokenStore persists the anonymous identity token between runs.
type TokenStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
