package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/models"
	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type CategoryService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewCategoryService(m repomanager.RepositoryManager) *CategoryService {
	return &CategoryService{repomanager: m, now: time.Now}
}

func (s *CategoryService) List(ctx context.Context, ownerID string) ([]models.CustomCategory, error) {
	return s.repomanager.Repos().Categories.List(ctx, ownerID)
}

func (s *CategoryService) Create(ctx context.Context, ownerID string, draft models.CategoryDraft) (models.CustomCategory, error) {
	if err := draft.Validate(); err != nil {
		return models.CustomCategory{}, err
	}

	c := models.NewCustomCategory(uuid.NewString(), ownerID, draft, s.now().UTC())
	if err := s.repomanager.Repos().Categories.Create(ctx, c); err != nil {
		return models.CustomCategory{}, err
	}
	return c, nil
}

// Delete removes a category and moves the sheets that used it to "other" in
// the same transaction.
func (s *CategoryService) Delete(ctx context.Context, ownerID, id string) error {
	if !isStoreID(id) {
		return fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	return s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		if _, err := r.Categories.Get(ctx, ownerID, id); err != nil {
			return err
		}
		if _, err := r.Sheets.ClearCategory(ctx, ownerID, id); err != nil {
			return err
		}
		return r.Categories.Delete(ctx, ownerID, id)
	})
}
