package sheets

import (
	"context"

	"github.com/dmitrijs2005/cheatsync/internal/models"
)

// Record is a cached sheet with its sync state.
type Record struct {
	Sheet   models.Sheet
	Pending bool
}

type Repository interface {
	// List returns every cached sheet, most recently updated first.
	List(ctx context.Context) ([]Record, error)

	// Get returns common.ErrNotFound when id is not cached.
	Get(ctx context.Context, id string) (Record, error)

	// Put upserts by sheet id.
	Put(ctx context.Context, r Record) error

	// Remove deletes id; removing an absent id is not an error.
	Remove(ctx context.Context, id string) error

	// Rekey moves a row from oldID to newID, rewriting the stored sheet id.
	// An existing row under newID is replaced.
	Rekey(ctx context.Context, oldID, newID string) error

	Clear(ctx context.Context) error
}
