package models

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// CustomCategory is a user-defined category a sheet can reference.
type CustomCategory struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
}

func (c CustomCategory) IsLocal() bool {
	return IsLocalID(c.ID)
}

// CategoryDraft is the create payload of a custom category.
type CategoryDraft struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (d CategoryDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return invalid("name", "must not be empty")
	}
	return nil
}

func NewCustomCategory(id, ownerID string, d CategoryDraft, now time.Time) CustomCategory {
	return CustomCategory{
		ID:        id,
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(d.Name),
		Color:     d.Color,
		Icon:      d.Icon,
		CreatedAt: now,
	}
}

// Draft strips identity and timestamps from c.
func (c CustomCategory) Draft() CategoryDraft {
	return CategoryDraft{Name: c.Name, Color: c.Color, Icon: c.Icon}
}

// SortCategories orders newest first.
func SortCategories(cats []CustomCategory) {
	slices.SortStableFunc(cats, func(a, b CustomCategory) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
