package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/queue"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/sheets"
	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/logging"
)

type (
	Item   = queue.Item
	Kind   = queue.Kind
	Action = queue.Action
)

const (
	KindSheet    = queue.KindSheet
	KindCategory = queue.KindCategory

	ActionCreate = queue.ActionCreate
	ActionUpdate = queue.ActionUpdate
	ActionDelete = queue.ActionDelete
)

// ApplyFunc replays one item against the remote store. For a create it
// returns the id the remote store assigned.
type ApplyFunc func(ctx context.Context, it Item) (remoteID string, err error)

// DrainResult describes one drain.
type DrainResult struct {
	Applied int
	Dropped []Item
	// Stopped is set when a transient failure left items queued.
	Stopped bool
}

// Queue is the durable FIFO of unconfirmed mutations.
type Queue struct {
	store *Store
	log   logging.Logger
	warn  func(Warning)
	now   func() time.Time
}

func NewQueue(store *Store, log logging.Logger, warn func(Warning), now func() time.Time) *Queue {
	return &Queue{store: store, log: log, warn: warn, now: now}
}

// newItem builds an item; payload is marshalled as JSON unless nil.
func (q *Queue) newItem(kind Kind, target string, action Action, payload any) (*Item, error) {
	it := &Item{Kind: kind, TargetID: target, Action: action, EnqueuedAt: q.now().UTC()}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", action, err)
		}
		it.Payload = b
	}
	return it, nil
}

// Enqueue appends an item using repos, so it can join the caller's
// transaction.
func (q *Queue) Enqueue(ctx context.Context, r Repos, kind Kind, target string, action Action, payload any) error {
	it, err := q.newItem(kind, target, action, payload)
	if err != nil {
		return err
	}
	return r.Queue.Append(ctx, it)
}

func (q *Queue) Items(ctx context.Context) ([]Item, error) {
	return q.store.Queue.List(ctx)
}

func (q *Queue) Len(ctx context.Context) (int, error) {
	return q.store.Queue.Count(ctx)
}

// HasOutstanding reports whether any queued item of kind targets id, directly
// or through an alias.
func (q *Queue) HasOutstanding(ctx context.Context, kind Kind, id string) (bool, error) {
	items, err := q.store.Queue.List(ctx)
	if err != nil {
		return false, err
	}
	if len(items) == 0 {
		return false, nil
	}
	alias, err := q.store.Aliases.List(ctx)
	if err != nil {
		return false, err
	}
	return outstandingFor(items, kind, alias).any(id), nil
}

type targetKey struct {
	kind Kind
	id   string
}

// Drain replays the queue in FIFO order.
//
// An item is removed only after apply returned. A permanent failure drops the
// item and every later item for the same target, each with a Warning. A
// transient failure stops the drain and leaves that item and everything after
// it queued; the returned error is a transient *SyncError.
func (q *Queue) Drain(ctx context.Context, apply ApplyFunc) (DrainResult, error) {
	var res DrainResult

	items, err := q.store.Queue.List(ctx)
	if err != nil {
		return res, err
	}

	dead := make(map[targetKey]bool)

	for _, it := range items {
		target, err := q.store.Aliases.Resolve(ctx, it.TargetID)
		if err != nil {
			return res, err
		}
		key := targetKey{it.Kind, target}

		if dead[key] {
			if err := q.drop(ctx, it, target, errors.New("earlier change for this record was rejected")); err != nil {
				return res, err
			}
			res.Dropped = append(res.Dropped, it)
			continue
		}

		call := it
		call.TargetID = target
		remoteID, err := apply(ctx, call)
		if err != nil {
			if Classify(err) == Transient {
				res.Stopped = true
				q.log.Info(ctx, "drain stopped, remote store unavailable", "seq", it.Seq, "error", err)
				return res, &SyncError{Class: Transient, Op: "drain " + string(it.Action) + " " + string(it.Kind), TargetID: target, Err: err}
			}

			dead[key] = true
			if err := q.drop(ctx, it, target, err); err != nil {
				return res, err
			}
			res.Dropped = append(res.Dropped, it)
			continue
		}

		if err := q.commit(ctx, it, remoteID); err != nil {
			return res, err
		}
		res.Applied++
	}

	return res, nil
}

// commit removes a confirmed item; a confirmed create also records the alias
// and moves the cache row to the remote id.
func (q *Queue) commit(ctx context.Context, it Item, remoteID string) error {
	return q.store.InTx(ctx, func(ctx context.Context, r Repos) error {
		if it.Action == ActionCreate && remoteID != "" && remoteID != it.TargetID {
			if err := adopt(ctx, r, it.Kind, it.TargetID, remoteID); err != nil {
				return err
			}
			q.log.Debug(ctx, "adopted remote id", "kind", it.Kind, "local_id", it.TargetID, "remote_id", remoteID)
		}
		return r.Queue.Remove(ctx, it.Seq)
	})
}

// drop removes a rejected item and clears the pending flag of its cache row,
// so the next merge falls back to the canonical copy.
func (q *Queue) drop(ctx context.Context, it Item, target string, cause error) error {
	err := q.store.InTx(ctx, func(ctx context.Context, r Repos) error {
		if err := settle(ctx, r, it.Kind, target); err != nil {
			return err
		}
		return r.Queue.Remove(ctx, it.Seq)
	})
	if err != nil {
		return err
	}

	q.log.Warn(ctx, "queued change dropped", "seq", it.Seq, "kind", it.Kind, "action", it.Action, "target_id", target, "error", cause)
	q.warn(Warning{
		Class:    Permanent,
		Op:       string(it.Action) + " " + string(it.Kind),
		TargetID: target,
		Err:      cause,
		At:       q.now(),
	})
	return nil
}

func adopt(ctx context.Context, r Repos, kind Kind, localID, remoteID string) error {
	if err := r.Aliases.Put(ctx, localID, remoteID); err != nil {
		return err
	}

	switch kind {
	case KindSheet:
		if err := r.Sheets.Rekey(ctx, localID, remoteID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
	case KindCategory:
		if err := r.Categories.Rekey(ctx, localID, remoteID); err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		return retargetCategoryRefs(ctx, r, localID, remoteID)
	}
	return nil
}

// retargetCategoryRefs points cached sheets that reference a local category id
// at its remote id.
func retargetCategoryRefs(ctx context.Context, r Repos, from, to string) error {
	list, err := r.Sheets.List(ctx)
	if err != nil {
		return err
	}
	for _, rec := range list {
		if rec.Sheet.CustomCategoryRef != from {
			continue
		}
		rec.Sheet.CustomCategoryRef = to
		if err := r.Sheets.Put(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func settle(ctx context.Context, r Repos, kind Kind, id string) error {
	switch kind {
	case KindSheet:
		rec, err := r.Sheets.Get(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !rec.Pending {
			return nil
		}
		return r.Sheets.Put(ctx, sheets.Record{Sheet: rec.Sheet, Pending: false})
	case KindCategory:
		list, err := r.Categories.List(ctx)
		if err != nil {
			return err
		}
		for _, rec := range list {
			if rec.Category.ID == id && rec.Pending {
				rec.Pending = false
				return r.Categories.Put(ctx, rec)
			}
		}
	}
	return nil
}
