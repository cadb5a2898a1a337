// Package categories stores user-defined categories server-side, scoped to
// their owner.
package categories

import (
	"context"

	"github.com/dmitrijs2005/cheatsync/internal/models"
)

type Repository interface {
	List(ctx context.Context, ownerID string) ([]models.CustomCategory, error)
	Get(ctx context.Context, ownerID, id string) (models.CustomCategory, error)
	Create(ctx context.Context, c models.CustomCategory) error
	Delete(ctx context.Context, ownerID, id string) error
}
