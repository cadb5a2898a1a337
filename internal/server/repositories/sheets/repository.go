// Package sheets stores cheat sheets server-side. Every operation is scoped to
// an owner; a sheet owned by someone else behaves as if it did not exist.
package sheets

import (
	"context"

	"github.com/dmitrijs2005/cheatsync/internal/models"
)

type Repository interface {
	List(ctx context.Context, ownerID string) ([]models.Sheet, error)
	Get(ctx context.Context, ownerID, id string) (models.Sheet, error)
	Create(ctx context.Context, s models.Sheet) error
	Update(ctx context.Context, s models.Sheet) error
	Delete(ctx context.Context, ownerID, id string) error
	// ClearCategory moves the owner's sheets that reference categoryID back
	// to the "other" category and reports how many were changed.
	ClearCategory(ctx context.Context, ownerID, categoryID string) (int64, error)
}
