// Package models defines the cheat sheet data model shared by the client
// engine and the remote store server.
package models

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/google/uuid"
)

// Category is one of the fixed sheet tags, or Custom.
type Category string

const (
	CategoryMathematics Category = "mathematics"
	CategorySoftware    Category = "software"
	CategoryCoding      Category = "coding"
	CategoryStudy       Category = "study"
	CategoryOther       Category = "other"
	CategoryCustom      Category = "custom"
)

// Categories lists the accepted values in display order.
var Categories = []Category{
	CategoryMathematics, CategorySoftware, CategoryCoding, CategoryStudy, CategoryOther, CategoryCustom,
}

func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// BlockKind classifies a content block.
type BlockKind string

const (
	BlockText    BlockKind = "text"
	BlockFormula BlockKind = "formula"
	BlockCode    BlockKind = "code"
)

func (k BlockKind) Valid() bool {
	return k == BlockText || k == BlockFormula || k == BlockCode
}

// ContentBlock is one ordered piece of a sheet.
type ContentBlock struct {
	ID     string    `json:"id"`
	Kind   BlockKind `json:"kind"`
	Body   string    `json:"body"`
	Title  string    `json:"title,omitempty"`
	Color  string    `json:"color,omitempty"`
	IsRead bool      `json:"is_read,omitempty"`
}

// Sheet is a cheat sheet record.
type Sheet struct {
	ID                string         `json:"id"`
	OwnerID           string         `json:"owner_id"`
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	Category          Category       `json:"category"`
	CustomCategoryRef string         `json:"custom_category_ref,omitempty"`
	Content           []ContentBlock `json:"content"`
	IsPublic          bool           `json:"is_public"`
	Favorite          bool           `json:"favorite"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// IsLocal reports whether the sheet still carries a client-minted id.
func (s Sheet) IsLocal() bool {
	return IsLocalID(s.ID)
}

// Clone returns a copy that shares no content slice with s.
func (s Sheet) Clone() Sheet {
	s.Content = slices.Clone(s.Content)
	return s
}

// Draft strips identity and timestamps from s.
func (s Sheet) Draft() SheetDraft {
	return SheetDraft{
		Title:             s.Title,
		Description:       s.Description,
		Category:          s.Category,
		CustomCategoryRef: s.CustomCategoryRef,
		Content:           slices.Clone(s.Content),
		IsPublic:          s.IsPublic,
		Favorite:          s.Favorite,
	}
}

// SheetDraft is the payload of a create: everything except id, owner and
// timestamps, which the store assigns.
type SheetDraft struct {
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	Category          Category       `json:"category"`
	CustomCategoryRef string         `json:"custom_category_ref,omitempty"`
	Content           []ContentBlock `json:"content"`
	IsPublic          bool           `json:"is_public"`
	Favorite          bool           `json:"favorite"`
}

// NormalizeBlocks gives every block without an id a fresh uuid.
func (d *SheetDraft) NormalizeBlocks() {
	d.Content = normalizeBlocks(d.Content)
}

// Validate checks the draft invariants that do not need other records.
func (d SheetDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return invalid("title", "must not be empty")
	}
	return validateClassification(d.Category, d.CustomCategoryRef, d.Content)
}

// NewSheet materializes a draft.
func NewSheet(id, ownerID string, d SheetDraft, now time.Time) Sheet {
	return Sheet{
		ID:                id,
		OwnerID:           ownerID,
		Title:             d.Title,
		Description:       d.Description,
		Category:          d.Category,
		CustomCategoryRef: d.CustomCategoryRef,
		Content:           slices.Clone(d.Content),
		IsPublic:          d.IsPublic,
		Favorite:          d.Favorite,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// SheetPatch is a partial update; nil fields are left unchanged.
//
// TouchedAt is when the edit was made on the client. A replayed update never
// leaves the sheet's UpdatedAt below it.
type SheetPatch struct {
	Title             *string         `json:"title,omitempty"`
	Description       *string         `json:"description,omitempty"`
	Category          *Category       `json:"category,omitempty"`
	CustomCategoryRef *string         `json:"custom_category_ref,omitempty"`
	Content           *[]ContentBlock `json:"content,omitempty"`
	IsPublic          *bool           `json:"is_public,omitempty"`
	Favorite          *bool           `json:"favorite,omitempty"`
	TouchedAt         *time.Time      `json:"touched_at,omitempty"`
}

// IsEmpty reports whether the patch changes no field.
func (p SheetPatch) IsEmpty() bool {
	p.TouchedAt = nil
	return p == SheetPatch{}
}

// Stamp moves s.UpdatedAt to now, or to TouchedAt when that is later.
func (p SheetPatch) Stamp(s *Sheet, now time.Time) {
	s.Touch(now)
	if p.TouchedAt != nil {
		s.Touch(p.TouchedAt.UTC())
	}
}

// NormalizeBlocks gives every block in a content replacement a fresh uuid
// when it has none, on a private copy of the slice.
func (p *SheetPatch) NormalizeBlocks() {
	if p.Content == nil {
		return
	}
	blocks := normalizeBlocks(slices.Clone(*p.Content))
	p.Content = &blocks
}

// Apply returns a copy of s with the patch applied. Timestamps are untouched;
// the caller decides the new UpdatedAt.
func (p SheetPatch) Apply(s Sheet) Sheet {
	s = s.Clone()
	if p.Title != nil {
		s.Title = *p.Title
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Category != nil {
		s.Category = *p.Category
		if s.Category != CategoryCustom {
			s.CustomCategoryRef = ""
		}
	}
	if p.CustomCategoryRef != nil {
		s.CustomCategoryRef = *p.CustomCategoryRef
	}
	if p.Content != nil {
		s.Content = normalizeBlocks(slices.Clone(*p.Content))
	}
	if p.IsPublic != nil {
		s.IsPublic = *p.IsPublic
	}
	if p.Favorite != nil {
		s.Favorite = *p.Favorite
	}
	return s
}

// Validate checks a complete sheet.
func (s Sheet) Validate() error {
	if s.ID == "" {
		return invalid("id", "must not be empty")
	}
	return s.Draft().Validate()
}

// Touch moves UpdatedAt to now without ever going backwards.
func (s *Sheet) Touch(now time.Time) {
	if now.After(s.UpdatedAt) {
		s.UpdatedAt = now
	}
}

// SortByRecent orders sheets most-recently-updated first; ties by id so the
// order is stable across passes.
func SortByRecent(sheets []Sheet) {
	slices.SortStableFunc(sheets, func(a, b Sheet) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// IsLocalID reports whether id was minted by a client while offline.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, common.LocalIDPrefix)
}

// Ptr returns a pointer to v; handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}

func normalizeBlocks(blocks []ContentBlock) []ContentBlock {
	for i := range blocks {
		if blocks[i].ID == "" {
			blocks[i].ID = uuid.NewString()
		}
	}
	return blocks
}

func validateClassification(c Category, ref string, blocks []ContentBlock) error {
	if !c.Valid() {
		return invalid("category", fmt.Sprintf("unknown category %q", c))
	}
	if c == CategoryCustom && ref == "" {
		return invalid("custom_category_ref", "required for custom category")
	}
	seen := make(map[string]struct{}, len(blocks))
	for _, b := range blocks {
		if b.ID == "" {
			return invalid("content", "block id must not be empty")
		}
		if !b.Kind.Valid() {
			return invalid("content", fmt.Sprintf("unknown block kind %q", b.Kind))
		}
		if _, dup := seen[b.ID]; dup {
			return invalid("content", fmt.Sprintf("duplicate block id %q", b.ID))
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

func invalid(field, msg string) error {
	return fmt.Errorf("%w: %s %s", common.ErrInvalid, field, msg)
}
