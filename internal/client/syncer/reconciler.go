package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/client/client"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/categories"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/sheets"
	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/logging"
	"github.com/dmitrijs2005/cheatsync/internal/models"
)

// Reconciler brings the cache, the queue and the view in line with the remote
// store. Callers hold the session operation lock.
type Reconciler struct {
	remote  client.RemoteStore
	store   *Store
	queue   *Queue
	view    *View
	monitor *Monitor
	legacy  *LegacyImporter
	log     logging.Logger
	warn    func(Warning)
	now     func() time.Time
}

// Run performs a full pass: legacy import, drain, fetch, merge and publish.
// Offline it only imports and republishes the cache.
func (r *Reconciler) Run(ctx context.Context) error {
	if _, err := r.legacy.Import(ctx); err != nil {
		r.log.Warn(ctx, "legacy import failed", "error", err)
		r.warn(Warning{Class: Persistence, Op: "import legacy store", Err: err, At: r.now()})
	}

	if !r.monitor.Online() {
		return r.publishCache(ctx)
	}

	res, err := r.queue.Drain(ctx, r.apply)
	if err != nil {
		var se *SyncError
		if errors.As(err, &se) && se.Class == Transient {
			r.monitor.Set(ctx, false)
		}
		if perr := r.publishCache(ctx); perr != nil {
			r.log.Warn(ctx, "failed to republish cache", "error", perr)
		}
		return fmt.Errorf("drain: %w", err)
	}
	if res.Applied > 0 || len(res.Dropped) > 0 {
		r.log.Info(ctx, "queue drained", "applied", res.Applied, "dropped", len(res.Dropped))
	}

	return r.Refresh(ctx)
}

// Refresh fetches canonical data, merges it with the cache and publishes the
// result, without draining first.
func (r *Reconciler) Refresh(ctx context.Context) error {
	if !r.monitor.Online() {
		return r.publishCache(ctx)
	}

	canonSheets, err := r.remote.FetchSheets(ctx)
	if err == nil {
		var canonCats []models.CustomCategory
		canonCats, err = r.remote.FetchCategories(ctx)
		if err == nil {
			return r.publishMerged(ctx, canonSheets, canonCats)
		}
	}

	if Classify(err) == Transient {
		r.monitor.Set(ctx, false)
	}
	if perr := r.publishCache(ctx); perr != nil {
		r.log.Warn(ctx, "failed to republish cache", "error", perr)
	}
	return fmt.Errorf("fetch: %w", &SyncError{Class: Classify(err), Op: "fetch", Err: err})
}

func (r *Reconciler) publishMerged(ctx context.Context, canonSheets []models.Sheet, canonCats []models.CustomCategory) error {
	items, err := r.store.Queue.List(ctx)
	if err != nil {
		return fmt.Errorf("read queue: %w", err)
	}
	alias, err := r.store.Aliases.List(ctx)
	if err != nil {
		return fmt.Errorf("read aliases: %w", err)
	}
	cachedS, err := r.store.Sheets.List(ctx)
	if err != nil {
		return fmt.Errorf("read sheet cache: %w", err)
	}
	cachedC, err := r.store.Categories.List(ctx)
	if err != nil {
		return fmt.Errorf("read category cache: %w", err)
	}

	ms := merge(canonSheets, cachedSheets(cachedS), sheetID, outstandingFor(items, KindSheet, alias))
	mc := merge(canonCats, cachedCategories(cachedC), categoryID, outstandingFor(items, KindCategory, alias))

	err = r.store.InTx(ctx, func(ctx context.Context, tx Repos) error {
		if err := tx.Sheets.Clear(ctx); err != nil {
			return err
		}
		for _, m := range ms {
			if err := tx.Sheets.Put(ctx, sheets.Record{Sheet: m.Value, Pending: m.Pending}); err != nil {
				return err
			}
		}
		if err := tx.Categories.Clear(ctx); err != nil {
			return err
		}
		for _, m := range mc {
			if err := tx.Categories.Put(ctx, categories.Record{Category: m.Value, Pending: m.Pending}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.log.Warn(ctx, "failed to rewrite cache", "error", err)
		r.warn(Warning{Class: Persistence, Op: "rewrite cache", Err: err, At: r.now()})
	}

	shs, cats := values(ms), values(mc)
	models.SortByRecent(shs)
	models.SortCategories(cats)
	r.view.setData(shs, cats)
	return nil
}

// publishCache shows whatever the cache holds.
func (r *Reconciler) publishCache(ctx context.Context) error {
	cachedS, err := r.store.Sheets.List(ctx)
	if err != nil {
		return fmt.Errorf("read sheet cache: %w", err)
	}
	cachedC, err := r.store.Categories.List(ctx)
	if err != nil {
		return fmt.Errorf("read category cache: %w", err)
	}

	shs := make([]models.Sheet, len(cachedS))
	for i, rec := range cachedS {
		shs[i] = rec.Sheet
	}
	cats := make([]models.CustomCategory, len(cachedC))
	for i, rec := range cachedC {
		cats[i] = rec.Category
	}
	models.SortByRecent(shs)
	models.SortCategories(cats)
	r.view.setData(shs, cats)
	return nil
}

// apply replays one queue item against the remote store.
func (r *Reconciler) apply(ctx context.Context, it Item) (string, error) {
	switch it.Kind {
	case KindSheet:
		return r.applySheet(ctx, it)
	case KindCategory:
		return r.applyCategory(ctx, it)
	default:
		return "", fmt.Errorf("%w: unknown queue kind %q", common.ErrInvalid, it.Kind)
	}
}

func (r *Reconciler) applySheet(ctx context.Context, it Item) (string, error) {
	switch it.Action {
	case ActionCreate:
		var d models.SheetDraft
		if err := decodePayload(it, &d); err != nil {
			return "", err
		}
		ref, err := r.store.Aliases.Resolve(ctx, d.CustomCategoryRef)
		if err != nil {
			return "", err
		}
		d.CustomCategoryRef = ref
		s, err := r.remote.CreateSheet(ctx, d)
		if err != nil {
			return "", err
		}
		return s.ID, nil

	case ActionUpdate:
		var p models.SheetPatch
		if err := decodePayload(it, &p); err != nil {
			return "", err
		}
		if p.CustomCategoryRef != nil {
			ref, err := r.store.Aliases.Resolve(ctx, *p.CustomCategoryRef)
			if err != nil {
				return "", err
			}
			p.CustomCategoryRef = &ref
		}
		_, err := r.remote.UpdateSheet(ctx, it.TargetID, p)
		return "", err

	case ActionDelete:
		err := r.remote.DeleteSheet(ctx, it.TargetID)
		if errors.Is(err, client.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return "", fmt.Errorf("%w: unknown action %q", common.ErrInvalid, it.Action)
}

func (r *Reconciler) applyCategory(ctx context.Context, it Item) (string, error) {
	switch it.Action {
	case ActionCreate:
		var d models.CategoryDraft
		if err := decodePayload(it, &d); err != nil {
			return "", err
		}
		c, err := r.remote.CreateCategory(ctx, d)
		if err != nil {
			return "", err
		}
		return c.ID, nil

	case ActionDelete:
		err := r.remote.DeleteCategory(ctx, it.TargetID)
		if errors.Is(err, client.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return "", fmt.Errorf("%w: unsupported category action %q", common.ErrInvalid, it.Action)
}

func decodePayload(it Item, v any) error {
	if err := json.Unmarshal(it.Payload, v); err != nil {
		return fmt.Errorf("%w: queue item %d: %v", common.ErrInvalid, it.Seq, err)
	}
	return nil
}
