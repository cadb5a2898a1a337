package syncer

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/client/client"
	"github.com/dmitrijs2005/cheatsync/internal/logging"
	"github.com/dmitrijs2005/cheatsync/internal/models"
	"github.com/stretchr/testify/require"
)

// clock hands out strictly increasing times.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

// fakeRemote is an in-memory RemoteStore that can be switched offline and
// told to fail specific calls.
type fakeRemote struct {
	mu     sync.Mutex
	clock  *clock
	online bool
	seq    int
	sheets map[string]models.Sheet
	cats   map[string]models.CustomCategory
	fail   map[string]error
	calls  []string
}

func newFakeRemote(c *clock) *fakeRemote {
	return &fakeRemote{
		clock:  c,
		sheets: map[string]models.Sheet{},
		cats:   map[string]models.CustomCategory{},
		fail:   map[string]error{},
	}
}

func (f *fakeRemote) setOnline(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.online = v
}

// setClock lets the remote run on its own clock, e.g. one behind the client.
func (f *fakeRemote) setClock(c *clock) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = c
}

func (f *fakeRemote) failOn(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = err
}

func (f *fakeRemote) enter(method string) error {
	f.calls = append(f.calls, method)
	if !f.online {
		return client.ErrUnavailable
	}
	if err, ok := f.fail[method]; ok {
		delete(f.fail, method)
		return err
	}
	return nil
}

func (f *fakeRemote) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

// seed stores a sheet as if another client had created it.
func (f *fakeRemote) seed(s models.Sheet) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sheets[s.ID] = s
}

func (f *fakeRemote) sheet(id string) (models.Sheet, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sheets[id]
	return s, ok
}

func (f *fakeRemote) sheetCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sheets)
}

func (f *fakeRemote) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *fakeRemote) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.online {
		return client.ErrUnavailable
	}
	return nil
}

func (f *fakeRemote) Close() error { return nil }

func (f *fakeRemote) FetchSheets(ctx context.Context) ([]models.Sheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FetchSheets"); err != nil {
		return nil, err
	}
	out := make([]models.Sheet, 0, len(f.sheets))
	for _, s := range f.sheets {
		out = append(out, s.Clone())
	}
	return out, nil
}

func (f *fakeRemote) GetSheet(ctx context.Context, id string) (models.Sheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("GetSheet"); err != nil {
		return models.Sheet{}, err
	}
	s, ok := f.sheets[id]
	if !ok {
		return models.Sheet{}, client.ErrNotFound
	}
	return s.Clone(), nil
}

func (f *fakeRemote) checkRef(c models.Category, ref string) error {
	if c != models.CategoryCustom {
		return nil
	}
	if _, ok := f.cats[ref]; !ok {
		return fmt.Errorf("%w: unknown category %s", client.ErrInvalid, ref)
	}
	return nil
}

func (f *fakeRemote) CreateSheet(ctx context.Context, d models.SheetDraft) (models.Sheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateSheet"); err != nil {
		return models.Sheet{}, err
	}
	if err := f.checkRef(d.Category, d.CustomCategoryRef); err != nil {
		return models.Sheet{}, err
	}
	s := models.NewSheet(f.nextID("r"), "u1", d, f.clock.Now())
	f.sheets[s.ID] = s
	return s.Clone(), nil
}

func (f *fakeRemote) UpdateSheet(ctx context.Context, id string, p models.SheetPatch) (models.Sheet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("UpdateSheet"); err != nil {
		return models.Sheet{}, err
	}
	cur, ok := f.sheets[id]
	if !ok {
		return models.Sheet{}, client.ErrNotFound
	}
	next := p.Apply(cur)
	if err := f.checkRef(next.Category, next.CustomCategoryRef); err != nil {
		return models.Sheet{}, err
	}
	p.Stamp(&next, f.clock.Now())
	f.sheets[id] = next
	return next.Clone(), nil
}

func (f *fakeRemote) DeleteSheet(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteSheet"); err != nil {
		return err
	}
	if _, ok := f.sheets[id]; !ok {
		return client.ErrNotFound
	}
	delete(f.sheets, id)
	return nil
}

func (f *fakeRemote) FetchCategories(ctx context.Context) ([]models.CustomCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("FetchCategories"); err != nil {
		return nil, err
	}
	out := make([]models.CustomCategory, 0, len(f.cats))
	for _, c := range f.cats {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeRemote) CreateCategory(ctx context.Context, d models.CategoryDraft) (models.CustomCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("CreateCategory"); err != nil {
		return models.CustomCategory{}, err
	}
	c := models.NewCustomCategory(f.nextID("c"), "u1", d, f.clock.Now())
	f.cats[c.ID] = c
	return c, nil
}

func (f *fakeRemote) DeleteCategory(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter("DeleteCategory"); err != nil {
		return err
	}
	if _, ok := f.cats[id]; !ok {
		return client.ErrNotFound
	}
	delete(f.cats, id)
	for sid, s := range f.sheets {
		if s.CustomCategoryRef == id {
			s.Category, s.CustomCategoryRef = models.CategoryOther, ""
			f.sheets[sid] = s
		}
	}
	return nil
}

type harness struct {
	t        *testing.T
	ctx      context.Context
	clock    *clock
	remote   *fakeRemote
	session  *Session
	dir      string
	warnings []Warning
	wmu      sync.Mutex
}

type harnessOpt func(*Options)

func withLegacy(path string) harnessOpt {
	return func(o *Options) { o.LegacyStorePath = path }
}

// newHarness builds a session over a temp SQLite file. online sets the initial
// remote state; the session is started before returning.
func newHarness(t *testing.T, online bool, opts ...harnessOpt) *harness {
	t.Helper()
	h := &harness{t: t, ctx: context.Background(), clock: newClock(), dir: t.TempDir()}
	h.remote = newFakeRemote(h.clock)
	h.remote.setOnline(online)
	h.session = h.open(opts...)
	return h
}

func (h *harness) open(opts ...harnessOpt) *Session {
	h.t.Helper()
	db, err := client.InitDatabase(h.ctx, filepath.Join(h.dir, "cache.db"))
	require.NoError(h.t, err)

	o := Options{
		Remote:              h.remote,
		DB:                  db,
		Logger:              logging.Discard(),
		OnlineCheckInterval: time.Hour,
		Now:                 h.clock.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	s := NewSession(o)
	s.OnWarning(func(w Warning) {
		h.wmu.Lock()
		defer h.wmu.Unlock()
		h.warnings = append(h.warnings, w)
	})
	_ = s.Start(h.ctx)
	h.t.Cleanup(func() {
		s.Stop()
		_ = s.store.Close()
	})
	return s
}

// reconnect brings the remote online and lets the monitor notice.
func (h *harness) reconnect() {
	h.t.Helper()
	h.remote.setOnline(true)
	require.True(h.t, h.session.CheckConnectivity(h.ctx))
}

func (h *harness) disconnect() {
	h.t.Helper()
	h.remote.setOnline(false)
	require.False(h.t, h.session.CheckConnectivity(h.ctx))
}

func (h *harness) queueLen() int {
	h.t.Helper()
	n, err := h.session.Pending(h.ctx)
	require.NoError(h.t, err)
	return n
}

func (h *harness) queueItems() []Item {
	h.t.Helper()
	items, err := h.session.queue.Items(h.ctx)
	require.NoError(h.t, err)
	return items
}

func (h *harness) warningsSnapshot() []Warning {
	h.wmu.Lock()
	defer h.wmu.Unlock()
	return append([]Warning(nil), h.warnings...)
}

func draft(title string) models.SheetDraft {
	return models.SheetDraft{
		Title:    title,
		Category: models.CategoryStudy,
		Content: []models.ContentBlock{
			{ID: "b1", Kind: models.BlockText, Body: "first"},
			{ID: "b2", Kind: models.BlockFormula, Body: "e^{i\\pi}+1=0"},
		},
	}
}
