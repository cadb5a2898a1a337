package syncer

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/cheatsync/internal/models"
)

// Snapshot is a read-only copy of what the application should display.
type Snapshot struct {
	Sheets     []models.Sheet
	Categories []models.CustomCategory
	Online     bool
	Loading    bool
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Sheets:     make([]models.Sheet, len(s.Sheets)),
		Categories: slices.Clone(s.Categories),
		Online:     s.Online,
		Loading:    s.Loading,
	}
	for i, sh := range s.Sheets {
		out.Sheets[i] = sh.Clone()
	}
	return out
}

// Sheet looks up id in the snapshot.
func (s Snapshot) Sheet(id string) (models.Sheet, bool) {
	i := slices.IndexFunc(s.Sheets, func(sh models.Sheet) bool { return sh.ID == id })
	if i < 0 {
		return models.Sheet{}, false
	}
	return s.Sheets[i], true
}

// View is the in-memory projection published to the application. Callers only
// ever see copies.
type View struct {
	mu     sync.RWMutex
	snap   Snapshot
	subs   map[int]func(Snapshot)
	nextID int

	// deliver schedules a notification; nil runs it immediately.
	deliver func(func())
}

func NewView() *View {
	return &View{subs: make(map[int]func(Snapshot))}
}

func (v *View) Snapshot() Snapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap.clone()
}

// Subscribe calls fn with a fresh snapshot after every change. The returned
// func unsubscribes.
func (v *View) Subscribe(fn func(Snapshot)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.subs[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.subs, id)
		v.mu.Unlock()
	}
}

// update applies fn under the write lock and notifies subscribers after
// releasing it.
func (v *View) update(fn func(s *Snapshot)) {
	v.mu.Lock()
	fn(&v.snap)
	subs := make([]func(Snapshot), 0, len(v.subs))
	for _, s := range v.subs {
		subs = append(subs, s)
	}
	snap := v.snap
	deliver := v.deliver
	v.mu.Unlock()

	notify := func() {
		for _, s := range subs {
			s(snap.clone())
		}
	}
	if deliver == nil {
		notify()
		return
	}
	deliver(notify)
}

func (v *View) sheet(id string) (models.Sheet, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	s, ok := v.snap.Sheet(id)
	return s.Clone(), ok
}

func (v *View) hasCategory(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.ContainsFunc(v.snap.Categories, func(c models.CustomCategory) bool { return c.ID == id })
}

func (v *View) setData(sheets []models.Sheet, cats []models.CustomCategory) {
	v.update(func(s *Snapshot) {
		s.Sheets = sheets
		s.Categories = cats
	})
}

func (v *View) setOnline(online bool) {
	v.update(func(s *Snapshot) { s.Online = online })
}

func (v *View) setLoading(loading bool) {
	v.update(func(s *Snapshot) { s.Loading = loading })
}

// putSheet replaces the sheet with the same id in place, or prepends it.
func (v *View) putSheet(sh models.Sheet) {
	v.update(func(s *Snapshot) {
		s.Sheets = slices.Clone(s.Sheets)
		if i := slices.IndexFunc(s.Sheets, func(x models.Sheet) bool { return x.ID == sh.ID }); i >= 0 {
			s.Sheets[i] = sh
			return
		}
		s.Sheets = append([]models.Sheet{sh}, s.Sheets...)
	})
}

func (v *View) removeSheet(id string) {
	v.update(func(s *Snapshot) {
		s.Sheets = slices.DeleteFunc(slices.Clone(s.Sheets), func(x models.Sheet) bool { return x.ID == id })
	})
}

// replaceSheets swaps every sheet for which fn returns a changed copy.
func (v *View) replaceSheets(fn func(models.Sheet) (models.Sheet, bool)) {
	v.update(func(s *Snapshot) {
		s.Sheets = slices.Clone(s.Sheets)
		for i, sh := range s.Sheets {
			if next, ok := fn(sh); ok {
				s.Sheets[i] = next
			}
		}
	})
}

func (v *View) putCategory(c models.CustomCategory) {
	v.update(func(s *Snapshot) {
		s.Categories = slices.Clone(s.Categories)
		if i := slices.IndexFunc(s.Categories, func(x models.CustomCategory) bool { return x.ID == c.ID }); i >= 0 {
			s.Categories[i] = c
			return
		}
		s.Categories = append([]models.CustomCategory{c}, s.Categories...)
	})
}

func (v *View) removeCategory(id string) {
	v.update(func(s *Snapshot) {
		s.Categories = slices.DeleteFunc(slices.Clone(s.Categories), func(x models.CustomCategory) bool { return x.ID == id })
	})
}

func (v *View) category(id string) (models.CustomCategory, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	i := slices.IndexFunc(v.snap.Categories, func(c models.CustomCategory) bool { return c.ID == id })
	if i < 0 {
		return models.CustomCategory{}, false
	}
	return v.snap.Categories[i], true
}
