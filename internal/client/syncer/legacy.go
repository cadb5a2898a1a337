package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/sheets"
	"github.com/dmitrijs2005/cheatsync/internal/logging"
	"github.com/dmitrijs2005/cheatsync/internal/models"
)

// legacySheet is one entry of the flat store written by earlier releases.
type legacySheet struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Content     legacyContent `json:"content"`
	IsPublic    bool          `json:"isPublic"`
	CreatedAt   *time.Time    `json:"createdAt"`
	UpdatedAt   *time.Time    `json:"updatedAt"`
}

type legacyContent struct {
	Items []legacyItem `json:"items"`
}

type legacyItem struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Title   string `json:"title"`
	Color   string `json:"color"`
}

func (l legacySheet) draft() models.SheetDraft {
	d := models.SheetDraft{
		Title:       l.Title,
		Description: l.Description,
		Category:    models.Category(l.Category),
		IsPublic:    l.IsPublic,
		Content:     make([]models.ContentBlock, 0, len(l.Content.Items)),
	}
	if !d.Category.Valid() || d.Category == models.CategoryCustom {
		d.Category = models.CategoryOther
	}
	for _, it := range l.Content.Items {
		kind := models.BlockKind(it.Type)
		if it.Type == "math" {
			kind = models.BlockFormula
		}
		if !kind.Valid() {
			kind = models.BlockText
		}
		d.Content = append(d.Content, models.ContentBlock{
			ID:    it.ID,
			Kind:  kind,
			Body:  it.Content,
			Title: it.Title,
			Color: it.Color,
		})
	}
	return d
}

// LegacyImporter moves sheets from the flat JSON store of earlier releases
// into the cache and queue, once per installation.
type LegacyImporter struct {
	path    string
	store   *Store
	queue   *Queue
	log     logging.Logger
	warn    func(Warning)
	now     func() time.Time
	localID func() string
}

// Import returns the number of sheets imported. It does not touch the
// network; the queued creates go out with the next drain.
func (l *LegacyImporter) Import(ctx context.Context) (int, error) {
	if l.path == "" {
		return 0, nil
	}

	done, err := l.store.Meta.Flag(ctx, metadata.KeyLegacyMigrated)
	if err != nil {
		return 0, err
	}
	if done {
		return 0, nil
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read legacy store: %w", err)
	}

	var entries []legacySheet
	if len(data) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return 0, fmt.Errorf("parse legacy store: %w", err)
		}
	}

	imported := 0
	err = l.store.InTx(ctx, func(ctx context.Context, r Repos) error {
		for _, e := range entries {
			d := e.draft()
			d.NormalizeBlocks()
			if err := d.Validate(); err != nil {
				l.warn(Warning{Class: Permanent, Op: "import legacy sheet", TargetID: e.ID, Err: err, At: l.now()})
				continue
			}

			s := models.NewSheet(l.localID(), "", d, l.now().UTC())
			if e.CreatedAt != nil {
				s.CreatedAt = e.CreatedAt.UTC()
			}
			if e.UpdatedAt != nil {
				s.UpdatedAt = e.UpdatedAt.UTC()
			}

			if err := r.Sheets.Put(ctx, sheets.Record{Sheet: s, Pending: true}); err != nil {
				return err
			}
			if err := l.queue.Enqueue(ctx, r, KindSheet, s.ID, ActionCreate, d); err != nil {
				return err
			}
			imported++
		}
		return r.Meta.SetFlag(ctx, metadata.KeyLegacyMigrated)
	})
	if err != nil {
		return 0, fmt.Errorf("import legacy store: %w", err)
	}

	if err := os.Remove(l.path); err != nil {
		l.log.Warn(ctx, "failed to remove legacy store", "path", l.path, "error", err)
	}
	l.log.Info(ctx, "legacy store imported", "sheets", imported)
	return imported, nil
}
