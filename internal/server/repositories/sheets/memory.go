package sheets

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/models"
)

// MemoryRepository keeps sheets in a map; used when no DSN is configured.
type MemoryRepository struct {
	mu     sync.RWMutex
	sheets map[string]models.Sheet
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sheets: make(map[string]models.Sheet)}
}

func (r *MemoryRepository) List(_ context.Context, ownerID string) ([]models.Sheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []models.Sheet{}
	for _, s := range r.sheets {
		if s.OwnerID == ownerID {
			result = append(result, s.Clone())
		}
	}
	models.SortByRecent(result)
	return result, nil
}

func (r *MemoryRepository) Get(_ context.Context, ownerID, id string) (models.Sheet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sheets[id]
	if !ok || s.OwnerID != ownerID {
		return models.Sheet{}, common.ErrNotFound
	}
	return s.Clone(), nil
}

func (r *MemoryRepository) Create(_ context.Context, s models.Sheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sheets[s.ID] = s.Clone()
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, s models.Sheet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.sheets[s.ID]
	if !ok || cur.OwnerID != s.OwnerID {
		return common.ErrNotFound
	}
	s.CreatedAt = cur.CreatedAt
	r.sheets[s.ID] = s.Clone()
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.sheets[id]
	if !ok || cur.OwnerID != ownerID {
		return common.ErrNotFound
	}
	delete(r.sheets, id)
	return nil
}

func (r *MemoryRepository) ClearCategory(_ context.Context, ownerID, categoryID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, s := range r.sheets {
		if s.OwnerID == ownerID && s.CustomCategoryRef == categoryID {
			s.Category, s.CustomCategoryRef = models.CategoryOther, ""
			r.sheets[id] = s
			n++
		}
	}
	return n, nil
}
