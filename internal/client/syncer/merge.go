package syncer

import (
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/categories"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/queue"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/sheets"
	"github.com/dmitrijs2005/cheatsync/internal/models"
)

// cached is a cache row reduced to what merging needs.
type cached[T any] struct {
	Value   T
	Pending bool
}

// merged is one published record plus the pending flag its cache row gets.
type merged[T any] struct {
	Value   T
	Pending bool
}

// outstanding summarizes the queue for one kind, keyed by resolved target id.
type outstanding struct {
	deleted map[string]bool
	edited  map[string]bool
}

func (o outstanding) any(id string) bool {
	return o.deleted[id] || o.edited[id]
}

func outstandingFor(items []queue.Item, kind queue.Kind, alias map[string]string) outstanding {
	o := outstanding{deleted: map[string]bool{}, edited: map[string]bool{}}
	for _, it := range items {
		if it.Kind != kind {
			continue
		}
		id := it.TargetID
		if remote, ok := alias[id]; ok {
			id = remote
		}
		if it.Action == queue.ActionDelete {
			o.deleted[id] = true
			delete(o.edited, id)
			continue
		}
		o.edited[id] = true
	}
	return o
}

// merge combines the canonical list with the local cache:
//   - canonical records are kept unless a delete for them is still queued;
//   - a cached copy replaces the canonical one while edits for it are queued;
//   - pending cache-only records are appended;
//   - everything else in the cache is dropped.
func merge[T any](canonical []T, cache []cached[T], idOf func(T) string, out outstanding) []merged[T] {
	result := make([]merged[T], 0, len(canonical)+len(cache))
	index := make(map[string]int, len(canonical))

	for _, c := range canonical {
		id := idOf(c)
		if out.deleted[id] {
			continue
		}
		index[id] = len(result)
		result = append(result, merged[T]{Value: c})
	}

	for _, r := range cache {
		id := idOf(r.Value)
		if out.deleted[id] {
			continue
		}
		if i, ok := index[id]; ok {
			if out.edited[id] {
				result[i] = merged[T]{Value: r.Value, Pending: true}
			}
			continue
		}
		if r.Pending {
			index[id] = len(result)
			result = append(result, merged[T]{Value: r.Value, Pending: true})
		}
	}
	return result
}

func sheetID(s models.Sheet) string              { return s.ID }
func categoryID(c models.CustomCategory) string { return c.ID }

func cachedSheets(rs []sheets.Record) []cached[models.Sheet] {
	out := make([]cached[models.Sheet], len(rs))
	for i, r := range rs {
		out[i] = cached[models.Sheet]{Value: r.Sheet, Pending: r.Pending}
	}
	return out
}

func cachedCategories(rs []categories.Record) []cached[models.CustomCategory] {
	out := make([]cached[models.CustomCategory], len(rs))
	for i, r := range rs {
		out[i] = cached[models.CustomCategory]{Value: r.Category, Pending: r.Pending}
	}
	return out
}

func values[T any](ms []merged[T]) []T {
	out := make([]T, len(ms))
	for i, m := range ms {
		out[i] = m.Value
	}
	return out
}
