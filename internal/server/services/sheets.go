package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/models"
	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type SheetService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewSheetService(m repomanager.RepositoryManager) *SheetService {
	return &SheetService{repomanager: m, now: time.Now}
}

func (s *SheetService) List(ctx context.Context, ownerID string) ([]models.Sheet, error) {
	return s.repomanager.Repos().Sheets.List(ctx, ownerID)
}

func (s *SheetService) Get(ctx context.Context, ownerID, id string) (models.Sheet, error) {
	if !isStoreID(id) {
		return models.Sheet{}, fmt.Errorf("%w: sheet %s", common.ErrNotFound, id)
	}
	return s.repomanager.Repos().Sheets.Get(ctx, ownerID, id)
}

func (s *SheetService) Create(ctx context.Context, ownerID string, draft models.SheetDraft) (models.Sheet, error) {
	draft.NormalizeBlocks()
	if err := draft.Validate(); err != nil {
		return models.Sheet{}, err
	}

	sheet := models.NewSheet(uuid.NewString(), ownerID, draft, s.now().UTC())

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		if err := checkCategoryRef(ctx, r, ownerID, sheet); err != nil {
			return err
		}
		return r.Sheets.Create(ctx, sheet)
	})
	if err != nil {
		return models.Sheet{}, err
	}
	return sheet, nil
}

// Update applies patch to the owner's sheet. UpdatedAt never moves backwards,
// even when the server clock does.
func (s *SheetService) Update(ctx context.Context, ownerID, id string, patch models.SheetPatch) (models.Sheet, error) {
	if !isStoreID(id) {
		return models.Sheet{}, fmt.Errorf("%w: sheet %s", common.ErrNotFound, id)
	}

	var out models.Sheet
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repos) error {
		cur, err := r.Sheets.Get(ctx, ownerID, id)
		if err != nil {
			return err
		}

		next := patch.Apply(cur)
		if err := next.Validate(); err != nil {
			return err
		}
		if err := checkCategoryRef(ctx, r, ownerID, next); err != nil {
			return err
		}
		patch.Stamp(&next, s.now().UTC())

		if err := r.Sheets.Update(ctx, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return models.Sheet{}, err
	}
	return out, nil
}

func (s *SheetService) Delete(ctx context.Context, ownerID, id string) error {
	if !isStoreID(id) {
		return fmt.Errorf("%w: sheet %s", common.ErrNotFound, id)
	}
	return s.repomanager.Repos().Sheets.Delete(ctx, ownerID, id)
}

// checkCategoryRef rejects a custom category that the owner does not have.
func checkCategoryRef(ctx context.Context, r repomanager.Repos, ownerID string, sheet models.Sheet) error {
	if sheet.Category != models.CategoryCustom {
		return nil
	}
	if !isStoreID(sheet.CustomCategoryRef) {
		return fmt.Errorf("%w: unknown custom category %q", common.ErrInvalid, sheet.CustomCategoryRef)
	}

	_, err := r.Categories.Get(ctx, ownerID, sheet.CustomCategoryRef)
	if errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("%w: unknown custom category %q", common.ErrInvalid, sheet.CustomCategoryRef)
	}
	return err
}

// isStoreID reports whether id can name a stored record. Client-minted ids
// and other junk never reach the database, whose id columns are uuids.
func isStoreID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
