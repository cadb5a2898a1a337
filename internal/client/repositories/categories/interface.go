// Package categories is the durable cache of custom categories on the client.
package categories

import (
	"context"

	"github.com/dmitrijs2005/cheatsync/internal/models"
)

// Record is a cached custom category with its sync state.
type Record struct {
	Category models.CustomCategory
	Pending  bool
}

type Repository interface {
	// List returns cached categories, newest first.
	List(ctx context.Context) ([]Record, error)
	Put(ctx context.Context, r Record) error
	Remove(ctx context.Context, id string) error
	Rekey(ctx context.Context, oldID, newID string) error
	Clear(ctx context.Context) error
}
