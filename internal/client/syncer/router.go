package syncer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/client/client"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/categories"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/sheets"
	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/logging"
	"github.com/dmitrijs2005/cheatsync/internal/models"
)

// Path says where a mutation was committed.
type Path int

const (
	PathOnline Path = iota + 1
	PathOffline
)

func (p Path) String() string {
	if p == PathOffline {
		return "offline"
	}
	return "online"
}

// OfflineNotice is shown to the user for every change committed offline.
const OfflineNotice = "Saved offline. Changes will sync when you're back online."

// Commit is the outcome of a Router mutation.
type Commit[T any] struct {
	Record T
	Path   Path
}

// Notice returns the user-facing message for an offline commit, or "".
func (c Commit[T]) Notice() string {
	if c.Path == PathOffline {
		return OfflineNotice
	}
	return ""
}

// Router is the single entry point for mutations. Online it writes through to
// the remote store; offline, or when the remote store cannot be reached, it
// writes to the cache and the queue. Either way the view is updated before the
// call returns.
type Router struct {
	remote  client.RemoteStore
	store   *Store
	queue   *Queue
	view    *View
	monitor *Monitor
	lock    sync.Locker
	log     logging.Logger
	warn    func(Warning)
	now     func() time.Time
	localID func() string
}

func (r *Router) Create(ctx context.Context, draft models.SheetDraft) (Commit[models.Sheet], error) {
	draft.Content = slices.Clone(draft.Content)
	draft.NormalizeBlocks()
	if err := draft.Validate(); err != nil {
		return Commit[models.Sheet]{}, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	ref, err := r.checkCategoryRef(ctx, draft.Category, draft.CustomCategoryRef)
	if err != nil {
		return Commit[models.Sheet]{}, err
	}
	draft.CustomCategoryRef = ref

	if r.monitor.Online() && !models.IsLocalID(ref) {
		s, err := r.remote.CreateSheet(ctx, draft)
		if err == nil {
			r.persist(ctx, "cache sheet", s.ID, func(ctx context.Context, tx Repos) error {
				return tx.Sheets.Put(ctx, sheets.Record{Sheet: s})
			})
			r.view.putSheet(s)
			return Commit[models.Sheet]{Record: s, Path: PathOnline}, nil
		}
		if Classify(err) == Permanent {
			return Commit[models.Sheet]{}, &SyncError{Class: Permanent, Op: "create sheet", Err: err}
		}
		r.degrade(ctx, err)
	}

	s := models.NewSheet(r.localID(), "", draft, r.now().UTC())
	r.persist(ctx, "queue sheet create", s.ID, func(ctx context.Context, tx Repos) error {
		if err := tx.Sheets.Put(ctx, sheets.Record{Sheet: s, Pending: true}); err != nil {
			return err
		}
		return r.queue.Enqueue(ctx, tx, KindSheet, s.ID, ActionCreate, draft)
	})
	r.view.putSheet(s)
	return Commit[models.Sheet]{Record: s, Path: PathOffline}, nil
}

func (r *Router) Update(ctx context.Context, id string, patch models.SheetPatch) (Commit[models.Sheet], error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.update(ctx, id, func(models.Sheet) (models.SheetPatch, error) { return patch, nil })
}

// ToggleFavorite flips the favorite flag of a sheet.
func (r *Router) ToggleFavorite(ctx context.Context, id string) (Commit[models.Sheet], error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.update(ctx, id, func(cur models.Sheet) (models.SheetPatch, error) {
		return models.SheetPatch{Favorite: models.Ptr(!cur.Favorite)}, nil
	})
}

// ToggleBlockRead flips the read flag of one content block.
func (r *Router) ToggleBlockRead(ctx context.Context, id, blockID string) (Commit[models.Sheet], error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.update(ctx, id, func(cur models.Sheet) (models.SheetPatch, error) {
		content := slices.Clone(cur.Content)
		i := slices.IndexFunc(content, func(b models.ContentBlock) bool { return b.ID == blockID })
		if i < 0 {
			return models.SheetPatch{}, fmt.Errorf("%w: block %s in sheet %s", common.ErrNotFound, blockID, id)
		}
		content[i].IsRead = !content[i].IsRead
		return models.SheetPatch{Content: &content}, nil
	})
}

// update must be called with the operation lock held.
func (r *Router) update(ctx context.Context, id string, mk func(cur models.Sheet) (models.SheetPatch, error)) (Commit[models.Sheet], error) {
	cur, ok := r.view.sheet(id)
	if !ok {
		return Commit[models.Sheet]{}, notFound("sheet", id)
	}

	patch, err := mk(cur)
	if err != nil {
		return Commit[models.Sheet]{}, err
	}
	if patch.IsEmpty() {
		return Commit[models.Sheet]{Record: cur, Path: r.path()}, nil
	}
	patch.NormalizeBlocks()

	next := patch.Apply(cur)
	if err := next.Validate(); err != nil {
		return Commit[models.Sheet]{}, err
	}
	ref, err := r.checkCategoryRef(ctx, next.Category, next.CustomCategoryRef)
	if err != nil {
		return Commit[models.Sheet]{}, err
	}
	if patch.CustomCategoryRef != nil {
		patch.CustomCategoryRef = &ref
	}
	next.CustomCategoryRef = ref

	if r.monitor.Online() && !models.IsLocalID(id) && !models.IsLocalID(ref) && !r.outstanding(ctx, KindSheet, id) {
		s, err := r.remote.UpdateSheet(ctx, id, patch)
		if err == nil {
			r.persist(ctx, "cache sheet", id, func(ctx context.Context, tx Repos) error {
				return tx.Sheets.Put(ctx, sheets.Record{Sheet: s})
			})
			r.view.putSheet(s)
			return Commit[models.Sheet]{Record: s, Path: PathOnline}, nil
		}
		if Classify(err) == Permanent {
			return Commit[models.Sheet]{}, &SyncError{Class: Permanent, Op: "update sheet", TargetID: id, Err: err}
		}
		r.degrade(ctx, err)
	}

	next.Touch(r.now().UTC())
	patch.TouchedAt = models.Ptr(next.UpdatedAt)
	r.persist(ctx, "queue sheet update", id, func(ctx context.Context, tx Repos) error {
		if err := tx.Sheets.Put(ctx, sheets.Record{Sheet: next, Pending: true}); err != nil {
			return err
		}
		return r.queue.Enqueue(ctx, tx, KindSheet, id, ActionUpdate, patch)
	})
	r.view.putSheet(next)
	return Commit[models.Sheet]{Record: next, Path: PathOffline}, nil
}

// Delete removes a sheet. A remote NotFound still removes it locally and is
// reported as a permanent *SyncError.
func (r *Router) Delete(ctx context.Context, id string) (Commit[models.Sheet], error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	cur, ok := r.view.sheet(id)
	if !ok {
		return Commit[models.Sheet]{}, notFound("sheet", id)
	}

	if r.monitor.Online() && !models.IsLocalID(id) && !r.outstanding(ctx, KindSheet, id) {
		err := r.remote.DeleteSheet(ctx, id)
		if err == nil || errors.Is(err, client.ErrNotFound) {
			r.persist(ctx, "uncache sheet", id, func(ctx context.Context, tx Repos) error {
				return tx.Sheets.Remove(ctx, id)
			})
			r.view.removeSheet(id)
			c := Commit[models.Sheet]{Record: cur, Path: PathOnline}
			if err != nil {
				return c, &SyncError{Class: Permanent, Op: "delete sheet", TargetID: id, Err: err}
			}
			return c, nil
		}
		if Classify(err) == Permanent {
			return Commit[models.Sheet]{}, &SyncError{Class: Permanent, Op: "delete sheet", TargetID: id, Err: err}
		}
		r.degrade(ctx, err)
	}

	r.persist(ctx, "queue sheet delete", id, func(ctx context.Context, tx Repos) error {
		if err := tx.Sheets.Remove(ctx, id); err != nil {
			return err
		}
		return r.queue.Enqueue(ctx, tx, KindSheet, id, ActionDelete, nil)
	})
	r.view.removeSheet(id)
	return Commit[models.Sheet]{Record: cur, Path: PathOffline}, nil
}

// Read returns the remote copy when online and the cached copy otherwise.
// A missing sheet is reported with found=false and no error.
func (r *Router) Read(ctx context.Context, id string) (models.Sheet, bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.monitor.Online() && !models.IsLocalID(id) && !r.outstanding(ctx, KindSheet, id) {
		s, err := r.remote.GetSheet(ctx, id)
		switch {
		case err == nil:
			return s, true, nil
		case errors.Is(err, client.ErrNotFound):
			return models.Sheet{}, false, nil
		case Classify(err) == Transient:
			r.degrade(ctx, err)
		default:
			r.log.Debug(ctx, "remote read failed, using cache", "id", id, "error", err)
		}
	}

	rec, err := r.store.Sheets.Get(ctx, id)
	switch {
	case err == nil:
		return rec.Sheet, true, nil
	case errors.Is(err, common.ErrNotFound):
		return models.Sheet{}, false, nil
	}

	r.reportPersistence(ctx, "read cache", id, err)
	s, ok := r.view.sheet(id)
	return s, ok, nil
}

func (r *Router) CreateCategory(ctx context.Context, draft models.CategoryDraft) (Commit[models.CustomCategory], error) {
	if err := draft.Validate(); err != nil {
		return Commit[models.CustomCategory]{}, err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if r.monitor.Online() {
		c, err := r.remote.CreateCategory(ctx, draft)
		if err == nil {
			r.persist(ctx, "cache category", c.ID, func(ctx context.Context, tx Repos) error {
				return tx.Categories.Put(ctx, categories.Record{Category: c})
			})
			r.view.putCategory(c)
			return Commit[models.CustomCategory]{Record: c, Path: PathOnline}, nil
		}
		if Classify(err) == Permanent {
			return Commit[models.CustomCategory]{}, &SyncError{Class: Permanent, Op: "create category", Err: err}
		}
		r.degrade(ctx, err)
	}

	c := models.NewCustomCategory(r.localID(), "", draft, r.now().UTC())
	r.persist(ctx, "queue category create", c.ID, func(ctx context.Context, tx Repos) error {
		if err := tx.Categories.Put(ctx, categories.Record{Category: c, Pending: true}); err != nil {
			return err
		}
		return r.queue.Enqueue(ctx, tx, KindCategory, c.ID, ActionCreate, draft)
	})
	r.view.putCategory(c)
	return Commit[models.CustomCategory]{Record: c, Path: PathOffline}, nil
}

// DeleteCategory removes a custom category; sheets that used it fall back to
// the "other" category.
func (r *Router) DeleteCategory(ctx context.Context, id string) (Commit[models.CustomCategory], error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	cur, ok := r.view.category(id)
	if !ok {
		return Commit[models.CustomCategory]{}, notFound("category", id)
	}

	if r.monitor.Online() && !models.IsLocalID(id) && !r.outstanding(ctx, KindCategory, id) {
		err := r.remote.DeleteCategory(ctx, id)
		if err == nil || errors.Is(err, client.ErrNotFound) {
			r.persist(ctx, "uncache category", id, func(ctx context.Context, tx Repos) error {
				if err := tx.Categories.Remove(ctx, id); err != nil {
					return err
				}
				return uncategorize(ctx, tx, id)
			})
			r.dropCategoryFromView(id)
			c := Commit[models.CustomCategory]{Record: cur, Path: PathOnline}
			if err != nil {
				return c, &SyncError{Class: Permanent, Op: "delete category", TargetID: id, Err: err}
			}
			return c, nil
		}
		if Classify(err) == Permanent {
			return Commit[models.CustomCategory]{}, &SyncError{Class: Permanent, Op: "delete category", TargetID: id, Err: err}
		}
		r.degrade(ctx, err)
	}

	r.persist(ctx, "queue category delete", id, func(ctx context.Context, tx Repos) error {
		if err := tx.Categories.Remove(ctx, id); err != nil {
			return err
		}
		if err := uncategorize(ctx, tx, id); err != nil {
			return err
		}
		return r.queue.Enqueue(ctx, tx, KindCategory, id, ActionDelete, nil)
	})
	r.dropCategoryFromView(id)
	return Commit[models.CustomCategory]{Record: cur, Path: PathOffline}, nil
}

func (r *Router) dropCategoryFromView(id string) {
	r.view.removeCategory(id)
	r.view.replaceSheets(func(s models.Sheet) (models.Sheet, bool) {
		if s.CustomCategoryRef != id {
			return s, false
		}
		return uncategorized(s), true
	})
}

// uncategorize moves cached sheets off a deleted category, keeping their
// pending state.
func uncategorize(ctx context.Context, tx Repos, categoryID string) error {
	list, err := tx.Sheets.List(ctx)
	if err != nil {
		return err
	}
	for _, rec := range list {
		if rec.Sheet.CustomCategoryRef != categoryID {
			continue
		}
		rec.Sheet = uncategorized(rec.Sheet)
		if err := tx.Sheets.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func uncategorized(s models.Sheet) models.Sheet {
	s.Category = models.CategoryOther
	s.CustomCategoryRef = ""
	return s
}

// checkCategoryRef resolves a custom category reference through the alias
// table and verifies the category is known.
func (r *Router) checkCategoryRef(ctx context.Context, c models.Category, ref string) (string, error) {
	if c != models.CategoryCustom {
		return ref, nil
	}
	resolved, err := r.store.Aliases.Resolve(ctx, ref)
	if err != nil {
		r.reportPersistence(ctx, "resolve alias", ref, err)
		resolved = ref
	}
	if !r.view.hasCategory(resolved) {
		return "", fmt.Errorf("%w: unknown custom category %q", common.ErrInvalid, ref)
	}
	return resolved, nil
}

// outstanding reports whether queued changes for id must go out before a new
// online write. On a read failure it answers true so ordering is kept.
func (r *Router) outstanding(ctx context.Context, kind Kind, id string) bool {
	ok, err := r.queue.HasOutstanding(ctx, kind, id)
	if err != nil {
		r.reportPersistence(ctx, "read queue", id, err)
		return true
	}
	return ok
}

func (r *Router) path() Path {
	if r.monitor.Online() {
		return PathOnline
	}
	return PathOffline
}

// degrade switches to offline after a transient remote failure.
func (r *Router) degrade(ctx context.Context, err error) {
	r.log.Info(ctx, "remote call failed, continuing offline", "error", err)
	r.monitor.Set(ctx, false)
}

func (r *Router) persist(ctx context.Context, op, id string, fn func(ctx context.Context, tx Repos) error) {
	if err := r.store.InTx(ctx, fn); err != nil {
		r.reportPersistence(ctx, op, id, err)
	}
}

func (r *Router) reportPersistence(ctx context.Context, op, id string, err error) {
	r.log.Warn(ctx, "local write failed", "op", op, "id", id, "error", err)
	r.warn(Warning{Class: Persistence, Op: op, TargetID: id, Err: err, At: r.now()})
}

func notFound(kind, id string) error {
	return fmt.Errorf("%w: %s %s", common.ErrNotFound, kind, id)
}
