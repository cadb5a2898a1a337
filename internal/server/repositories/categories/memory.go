package categories

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/models"
)

// MemoryRepository keeps categories in a map; used when no DSN is configured.
type MemoryRepository struct {
	mu   sync.RWMutex
	cats map[string]models.CustomCategory
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{cats: make(map[string]models.CustomCategory)}
}

func (r *MemoryRepository) List(_ context.Context, ownerID string) ([]models.CustomCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []models.CustomCategory{}
	for _, c := range r.cats {
		if c.OwnerID == ownerID {
			result = append(result, c)
		}
	}
	models.SortCategories(result)
	return result, nil
}

func (r *MemoryRepository) Get(_ context.Context, ownerID, id string) (models.CustomCategory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.cats[id]
	if !ok || c.OwnerID != ownerID {
		return models.CustomCategory{}, common.ErrNotFound
	}
	return c, nil
}

func (r *MemoryRepository) Create(_ context.Context, c models.CustomCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cats[c.ID] = c
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cats[id]
	if !ok || c.OwnerID != ownerID {
		return common.ErrNotFound
	}
	delete(r.cats, id)
	return nil
}
