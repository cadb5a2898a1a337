package syncer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/client/client"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflineCreate_ConvergesOnReconnect(t *testing.T) {
	h := newHarness(t, false)

	c, err := h.session.Create(h.ctx, draft("Linear algebra"))
	require.NoError(t, err)
	assert.Equal(t, PathOffline, c.Path)
	assert.Equal(t, OfflineNotice, c.Notice())
	assert.True(t, models.IsLocalID(c.Record.ID))
	assert.Equal(t, 1, h.queueLen())

	view := h.session.View()
	require.Len(t, view.Sheets, 1)
	assert.Equal(t, c.Record.ID, view.Sheets[0].ID)
	assert.False(t, view.Online)

	h.reconnect()

	assert.Equal(t, 1, h.remote.sheetCount())
	assert.Zero(t, h.queueLen())

	view = h.session.View()
	require.Len(t, view.Sheets, 1)
	got := view.Sheets[0]
	assert.False(t, models.IsLocalID(got.ID), "local id must be replaced by the remote id")
	assert.Equal(t, "Linear algebra", got.Title)
	assert.True(t, view.Online)

	rec, err := h.session.store.Sheets.Get(h.ctx, got.ID)
	require.NoError(t, err)
	assert.False(t, rec.Pending)
	_, err = h.session.store.Sheets.Get(h.ctx, c.Record.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestOfflineCreateThenUpdate_UpdateFollowsAdoptedID(t *testing.T) {
	h := newHarness(t, false)

	c, err := h.session.Create(h.ctx, draft("Draft"))
	require.NoError(t, err)
	_, err = h.session.Update(h.ctx, c.Record.ID, models.SheetPatch{Title: models.Ptr("Final")})
	require.NoError(t, err)

	h.reconnect()

	require.Equal(t, 1, h.remote.sheetCount())
	view := h.session.View()
	require.Len(t, view.Sheets, 1)
	remote, ok := h.remote.sheet(view.Sheets[0].ID)
	require.True(t, ok)
	assert.Equal(t, "Final", remote.Title)
	assert.Equal(t, 1, h.remote.callCount("CreateSheet"))
	assert.Equal(t, 1, h.remote.callCount("UpdateSheet"))
}

func TestOfflineUpdate_ConvergesOnReconnect(t *testing.T) {
	h := newHarness(t, true)

	c, err := h.session.Create(h.ctx, draft("Sorting"))
	require.NoError(t, err)
	require.Equal(t, PathOnline, c.Path)
	created := c.Record

	h.disconnect()

	u, err := h.session.Update(h.ctx, created.ID, models.SheetPatch{Description: models.Ptr("quick vs merge")})
	require.NoError(t, err)
	assert.Equal(t, PathOffline, u.Path)
	assert.False(t, u.Record.UpdatedAt.Before(created.UpdatedAt))

	h.reconnect()

	remote, ok := h.remote.sheet(created.ID)
	require.True(t, ok)
	assert.Equal(t, "quick vs merge", remote.Description)
	assert.Zero(t, h.queueLen())

	view := h.session.View()
	require.Len(t, view.Sheets, 1)
	assert.Equal(t, "quick vs merge", view.Sheets[0].Description)
}

func TestOfflineUpdate_ServerClockBehind_KeepsLocalEditTime(t *testing.T) {
	h := newHarness(t, true)

	c, err := h.session.Create(h.ctx, draft("Integrals"))
	require.NoError(t, err)
	require.Equal(t, PathOnline, c.Path)

	// the store's clock trails the client's by an hour from here on
	h.remote.setClock(&clock{t: h.clock.t.Add(-time.Hour)})

	h.disconnect()

	u, err := h.session.Update(h.ctx, c.Record.ID, models.SheetPatch{Title: models.Ptr("Local")})
	require.NoError(t, err)
	require.Equal(t, PathOffline, u.Path)
	t2 := u.Record.UpdatedAt

	h.reconnect()
	require.Zero(t, h.queueLen())

	view := h.session.View()
	require.Len(t, view.Sheets, 1)
	got := view.Sheets[0]
	assert.Equal(t, "Local", got.Title)
	assert.False(t, got.UpdatedAt.Before(t2), "updatedAt %v went below the local edit time %v", got.UpdatedAt, t2)

	remote, ok := h.remote.sheet(c.Record.ID)
	require.True(t, ok)
	assert.False(t, remote.UpdatedAt.Before(t2))
}

func TestOfflineDelete_ConvergesOnReconnect(t *testing.T) {
	h := newHarness(t, true)

	c, err := h.session.Create(h.ctx, draft("Temp"))
	require.NoError(t, err)

	h.disconnect()

	d, err := h.session.Delete(h.ctx, c.Record.ID)
	require.NoError(t, err)
	assert.Equal(t, PathOffline, d.Path)
	assert.Empty(t, h.session.View().Sheets)

	h.reconnect()

	assert.Zero(t, h.remote.sheetCount())
	assert.Empty(t, h.session.View().Sheets)
	assert.Zero(t, h.queueLen())
}

func TestQueuedDeleteHidesCanonicalCopyUntilDrained(t *testing.T) {
	h := newHarness(t, true)
	c, err := h.session.Create(h.ctx, draft("Hidden"))
	require.NoError(t, err)

	h.disconnect()
	_, err = h.session.Delete(h.ctx, c.Record.ID)
	require.NoError(t, err)

	// merge against a canonical list that still has the sheet
	_, err = h.remote.FetchSheets(h.ctx)
	require.Error(t, err)
	h.remote.setOnline(true)
	canon, err := h.remote.FetchSheets(h.ctx)
	require.NoError(t, err)
	require.Len(t, canon, 1)

	h.session.lock.Lock()
	require.NoError(t, h.session.reconciler.publishMerged(h.ctx, canon, nil))
	h.session.lock.Unlock()

	assert.Empty(t, h.session.View().Sheets)
}

func TestDrain_IsIdempotent(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.session.Create(h.ctx, draft("Once"))
	require.NoError(t, err)

	h.reconnect()
	require.NoError(t, h.session.Sync(h.ctx))
	require.NoError(t, h.session.Sync(h.ctx))

	assert.Equal(t, 1, h.remote.sheetCount())
	assert.Equal(t, 1, h.remote.callCount("CreateSheet"))
	assert.Len(t, h.session.View().Sheets, 1)
	assert.Empty(t, h.warningsSnapshot())
}

func TestDrain_DeleteOfMissingRecordCountsAsDone(t *testing.T) {
	h := newHarness(t, true)
	c, err := h.session.Create(h.ctx, draft("Gone"))
	require.NoError(t, err)

	h.disconnect()
	_, err = h.session.Delete(h.ctx, c.Record.ID)
	require.NoError(t, err)

	// someone else already deleted it
	h.remote.mu.Lock()
	delete(h.remote.sheets, c.Record.ID)
	h.remote.mu.Unlock()

	h.reconnect()
	assert.Zero(t, h.queueLen())
	assert.Empty(t, h.warningsSnapshot())
}

func TestTwoOfflineUpdates_TwoItemsAppliedInOrder(t *testing.T) {
	h := newHarness(t, true)
	c, err := h.session.Create(h.ctx, draft("v0"))
	require.NoError(t, err)

	h.disconnect()

	_, err = h.session.Update(h.ctx, c.Record.ID, models.SheetPatch{Title: models.Ptr("v1")})
	require.NoError(t, err)
	_, err = h.session.Update(h.ctx, c.Record.ID, models.SheetPatch{Title: models.Ptr("v2")})
	require.NoError(t, err)

	items := h.queueItems()
	require.Len(t, items, 2)
	assert.Equal(t, ActionUpdate, items[0].Action)
	assert.Equal(t, ActionUpdate, items[1].Action)
	assert.Less(t, items[0].Seq, items[1].Seq)

	h.reconnect()

	remote, ok := h.remote.sheet(c.Record.ID)
	require.True(t, ok)
	assert.Equal(t, "v2", remote.Title)
	assert.Equal(t, "v2", h.session.View().Sheets[0].Title)
}

func TestMerge_CanonicalWinsWhenNothingQueued(t *testing.T) {
	h := newHarness(t, true)
	c, err := h.session.Create(h.ctx, draft("Mine"))
	require.NoError(t, err)

	// another client edits the sheet at T2
	t2 := h.clock.Now()
	other := c.Record.Clone()
	other.Title = "Theirs"
	other.UpdatedAt = t2
	h.remote.seed(other)

	require.NoError(t, h.session.Refresh(h.ctx))

	view := h.session.View()
	require.Len(t, view.Sheets, 1)
	assert.Equal(t, "Theirs", view.Sheets[0].Title)
	assert.False(t, view.Sheets[0].UpdatedAt.Before(t2))
}

func TestMerge_QueuedEditSurvivesOlderCanonical(t *testing.T) {
	h := newHarness(t, true)
	c, err := h.session.Create(h.ctx, draft("Base"))
	require.NoError(t, err)

	h.disconnect()
	_, err = h.session.Update(h.ctx, c.Record.ID, models.SheetPatch{Title: models.Ptr("Local edit")})
	require.NoError(t, err)

	h.remote.setOnline(true)
	canon, err := h.remote.FetchSheets(h.ctx)
	require.NoError(t, err)

	h.session.lock.Lock()
	require.NoError(t, h.session.reconciler.publishMerged(h.ctx, canon, nil))
	h.session.lock.Unlock()

	assert.Equal(t, "Local edit", h.session.View().Sheets[0].Title)
	assert.Equal(t, 1, h.queueLen())
}

func TestMerge_SortsMostRecentFirst(t *testing.T) {
	h := newHarness(t, true)

	a, err := h.session.Create(h.ctx, draft("a"))
	require.NoError(t, err)
	b, err := h.session.Create(h.ctx, draft("b"))
	require.NoError(t, err)

	_, err = h.session.Update(h.ctx, a.Record.ID, models.SheetPatch{Title: models.Ptr("a2")})
	require.NoError(t, err)
	require.NoError(t, h.session.Refresh(h.ctx))

	view := h.session.View()
	require.Len(t, view.Sheets, 2)
	assert.Equal(t, a.Record.ID, view.Sheets[0].ID)
	assert.Equal(t, b.Record.ID, view.Sheets[1].ID)
}

func TestOnlineDelete_NotFoundIsPermanentAndRemovesLocally(t *testing.T) {
	h := newHarness(t, true)
	c, err := h.session.Create(h.ctx, draft("Ghost"))
	require.NoError(t, err)

	h.remote.mu.Lock()
	delete(h.remote.sheets, c.Record.ID)
	h.remote.mu.Unlock()

	_, err = h.session.Delete(h.ctx, c.Record.ID)
	require.Error(t, err)
	assert.True(t, IsPermanent(err))
	require.ErrorIs(t, err, client.ErrNotFound)

	_, found, rerr := h.session.Read(h.ctx, c.Record.ID)
	require.NoError(t, rerr)
	assert.False(t, found)
	assert.Empty(t, h.session.View().Sheets)
}

func TestOnlineUpdate_PermanentFailureReturnsSyncError(t *testing.T) {
	h := newHarness(t, true)
	c, err := h.session.Create(h.ctx, draft("x"))
	require.NoError(t, err)

	h.remote.failOn("UpdateSheet", client.ErrUnauthorized)
	_, err = h.session.Update(h.ctx, c.Record.ID, models.SheetPatch{Title: models.Ptr("y")})

	var se *SyncError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Permanent, se.Class)
	assert.Equal(t, "x", h.session.View().Sheets[0].Title)
	assert.Zero(t, h.queueLen())
}

func TestOnlineTransientFailure_DegradesToOffline(t *testing.T) {
	h := newHarness(t, true)
	require.True(t, h.session.Online())

	h.remote.failOn("CreateSheet", client.ErrUnavailable)
	c, err := h.session.Create(h.ctx, draft("Flaky"))
	require.NoError(t, err)

	assert.Equal(t, PathOffline, c.Path)
	assert.False(t, h.session.Online())
	assert.False(t, h.session.View().Online)
	assert.Equal(t, 1, h.queueLen())

	h.reconnect()
	assert.Equal(t, 1, h.remote.sheetCount())
	assert.Zero(t, h.queueLen())
}

func TestDrain_PermanentFailureDropsItemAndLaterItemsForSameTarget(t *testing.T) {
	h := newHarness(t, true)
	keep, err := h.session.Create(h.ctx, draft("keep"))
	require.NoError(t, err)
	doomed, err := h.session.Create(h.ctx, draft("doomed"))
	require.NoError(t, err)

	h.disconnect()

	_, err = h.session.Update(h.ctx, doomed.Record.ID, models.SheetPatch{Title: models.Ptr("doomed 1")})
	require.NoError(t, err)
	_, err = h.session.Update(h.ctx, keep.Record.ID, models.SheetPatch{Title: models.Ptr("kept")})
	require.NoError(t, err)
	_, err = h.session.Update(h.ctx, doomed.Record.ID, models.SheetPatch{Title: models.Ptr("doomed 2")})
	require.NoError(t, err)
	require.Equal(t, 3, h.queueLen())

	// the doomed sheet is removed remotely while we are offline
	h.remote.mu.Lock()
	delete(h.remote.sheets, doomed.Record.ID)
	h.remote.mu.Unlock()

	h.reconnect()

	assert.Zero(t, h.queueLen())
	remote, ok := h.remote.sheet(keep.Record.ID)
	require.True(t, ok)
	assert.Equal(t, "kept", remote.Title)

	warnings := h.warningsSnapshot()
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, Permanent, w.Class)
		assert.Equal(t, doomed.Record.ID, w.TargetID)
	}

	view := h.session.View()
	require.Len(t, view.Sheets, 1, "rejected edits must not resurrect the sheet")
	assert.Equal(t, keep.Record.ID, view.Sheets[0].ID)
}

func TestDrain_TransientFailureStopsAndKeepsQueue(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.session.Create(h.ctx, draft("one"))
	require.NoError(t, err)
	_, err = h.session.Create(h.ctx, draft("two"))
	require.NoError(t, err)

	h.remote.failOn("CreateSheet", client.ErrUnavailable)
	h.remote.setOnline(true)
	h.session.CheckConnectivity(h.ctx)

	assert.Equal(t, 2, h.queueLen(), "nothing is removed when the first item fails transiently")
	assert.Zero(t, h.remote.sheetCount())
	assert.False(t, h.session.Online())
	assert.Len(t, h.session.View().Sheets, 2)
	assert.Empty(t, h.warningsSnapshot())

	h.reconnect()
	assert.Zero(t, h.queueLen())
	assert.Equal(t, 2, h.remote.sheetCount())
}

func TestQueueSurvivesRestart(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.session.Create(h.ctx, draft("persisted"))
	require.NoError(t, err)

	h.session.Stop()
	require.NoError(t, h.session.store.Close())

	h.session = h.open()
	view := h.session.View()
	require.Len(t, view.Sheets, 1)
	assert.Equal(t, "persisted", view.Sheets[0].Title)
	assert.Equal(t, 1, h.queueLen())

	h.reconnect()
	assert.Equal(t, 1, h.remote.sheetCount())
}

func TestRead(t *testing.T) {
	h := newHarness(t, true)
	c, err := h.session.Create(h.ctx, draft("readable"))
	require.NoError(t, err)

	got, found, err := h.session.Read(h.ctx, c.Record.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "readable", got.Title)
	assert.Equal(t, 1, h.remote.callCount("GetSheet"))

	h.disconnect()

	got, found, err = h.session.Read(h.ctx, c.Record.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "readable", got.Title)
	assert.Equal(t, 1, h.remote.callCount("GetSheet"), "offline reads come from the cache")

	_, found, err = h.session.Read(h.ctx, "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdate_UnknownIDAndInvalidPatch(t *testing.T) {
	h := newHarness(t, false)

	_, err := h.session.Update(h.ctx, "missing", models.SheetPatch{Title: models.Ptr("x")})
	require.ErrorIs(t, err, common.ErrNotFound)

	c, err := h.session.Create(h.ctx, draft("ok"))
	require.NoError(t, err)

	_, err = h.session.Update(h.ctx, c.Record.ID, models.SheetPatch{Title: models.Ptr("")})
	require.ErrorIs(t, err, common.ErrInvalid)
	assert.Equal(t, 1, h.queueLen())

	_, err = h.session.Create(h.ctx, models.SheetDraft{Title: "bad", Category: "poetry"})
	require.ErrorIs(t, err, common.ErrInvalid)
}

func TestOfflineUpdate_NeverMovesUpdatedAtBack(t *testing.T) {
	h := newHarness(t, false)
	c, err := h.session.Create(h.ctx, draft("t"))
	require.NoError(t, err)

	future := c.Record.UpdatedAt.Add(time.Hour)
	h.session.view.putSheet(func() models.Sheet { s := c.Record; s.UpdatedAt = future; return s }())

	u, err := h.session.Update(h.ctx, c.Record.ID, models.SheetPatch{Title: models.Ptr("t2")})
	require.NoError(t, err)
	assert.Equal(t, future, u.Record.UpdatedAt)
}

func TestToggles(t *testing.T) {
	h := newHarness(t, false)
	c, err := h.session.Create(h.ctx, draft("toggles"))
	require.NoError(t, err)

	f, err := h.session.ToggleFavorite(h.ctx, c.Record.ID)
	require.NoError(t, err)
	assert.True(t, f.Record.Favorite)

	r, err := h.session.ToggleBlockRead(h.ctx, c.Record.ID, "b2")
	require.NoError(t, err)
	assert.False(t, r.Record.Content[0].IsRead)
	assert.True(t, r.Record.Content[1].IsRead)

	_, err = h.session.ToggleBlockRead(h.ctx, c.Record.ID, "zz")
	require.ErrorIs(t, err, common.ErrNotFound)

	assert.Equal(t, 3, h.queueLen())

	h.reconnect()
	sheet := h.session.View().Sheets[0]
	assert.True(t, sheet.Favorite)
	assert.True(t, sheet.Content[1].IsRead)
}

func TestOfflineCategory_SheetRefIsRewrittenOnAdoption(t *testing.T) {
	h := newHarness(t, false)

	cat, err := h.session.CreateCategory(h.ctx, models.CategoryDraft{Name: "Physics", Color: "#0af"})
	require.NoError(t, err)
	assert.Equal(t, PathOffline, cat.Path)

	d := draft("Kinematics")
	d.Category = models.CategoryCustom
	d.CustomCategoryRef = cat.Record.ID
	_, err = h.session.Create(h.ctx, d)
	require.NoError(t, err)

	d.CustomCategoryRef = "local-unknown"
	_, err = h.session.Create(h.ctx, d)
	require.ErrorIs(t, err, common.ErrInvalid)

	h.reconnect()

	view := h.session.View()
	require.Len(t, view.Categories, 1)
	require.Len(t, view.Sheets, 1)
	remoteCat := view.Categories[0].ID
	assert.False(t, models.IsLocalID(remoteCat))
	assert.Equal(t, remoteCat, view.Sheets[0].CustomCategoryRef)
	assert.Zero(t, h.queueLen())
}

func TestDeleteCategory_UncategorizesSheets(t *testing.T) {
	h := newHarness(t, true)

	cat, err := h.session.CreateCategory(h.ctx, models.CategoryDraft{Name: "Chem"})
	require.NoError(t, err)
	require.Equal(t, PathOnline, cat.Path)

	d := draft("Moles")
	d.Category = models.CategoryCustom
	d.CustomCategoryRef = cat.Record.ID
	s, err := h.session.Create(h.ctx, d)
	require.NoError(t, err)

	h.disconnect()
	_, err = h.session.DeleteCategory(h.ctx, cat.Record.ID)
	require.NoError(t, err)

	view := h.session.View()
	assert.Empty(t, view.Categories)
	assert.Equal(t, models.CategoryOther, view.Sheets[0].Category)

	h.reconnect()

	remote, ok := h.remote.sheet(s.Record.ID)
	require.True(t, ok)
	assert.Equal(t, models.CategoryOther, remote.Category)
	assert.Empty(t, h.session.View().Categories)
}

func TestLegacyImport_RunsOnceEvenOffline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cheatsheets.json")
	legacy := `[
	  {"id":"old-1","userId":"x","title":"Old one","category":"coding",
	   "content":{"items":[{"id":"i1","type":"code","content":"ls -la"},{"id":"i2","type":"math","content":"a^2"}]},
	   "isPublic":true,"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-02T00:00:00Z"},
	  {"id":"old-2","title":"","category":"other","content":{"items":[]}}
	]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	h := newHarness(t, false, withLegacy(path))

	view := h.session.View()
	require.Len(t, view.Sheets, 1)
	s := view.Sheets[0]
	assert.True(t, models.IsLocalID(s.ID))
	assert.Equal(t, "Old one", s.Title)
	assert.True(t, s.IsPublic)
	assert.Equal(t, models.BlockFormula, s.Content[1].Kind)
	assert.True(t, s.UpdatedAt.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, 1, h.queueLen())
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	migrated, err := h.session.store.Meta.Flag(h.ctx, metadata.KeyLegacyMigrated)
	require.NoError(t, err)
	assert.True(t, migrated)

	warnings := h.warningsSnapshot()
	require.Len(t, warnings, 1, "the untitled entry is skipped with a warning")

	// a file that shows up again is ignored
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))
	require.NoError(t, h.session.Sync(h.ctx))
	assert.Equal(t, 1, h.queueLen())

	h.reconnect()
	assert.Equal(t, 1, h.remote.sheetCount())
}

func TestSubscribe_NotifiedOnChange(t *testing.T) {
	h := newHarness(t, false)

	var (
		mu    sync.Mutex
		seen  []int
		calls int
	)
	cancel := h.session.Subscribe(func(s Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		seen = append(seen, len(s.Sheets))
	})

	_, err := h.session.Create(h.ctx, draft("notify"))
	require.NoError(t, err)

	cancel()
	_, err = h.session.Create(h.ctx, draft("silent"))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	assert.Equal(t, []int{1}, seen)
}

func TestView_SnapshotIsACopy(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.session.Create(h.ctx, draft("immutable"))
	require.NoError(t, err)

	snap := h.session.View()
	snap.Sheets[0].Title = "mutated"
	snap.Sheets[0].Content[0].Body = "mutated"

	again := h.session.View()
	assert.Equal(t, "immutable", again.Sheets[0].Title)
	assert.Equal(t, "first", again.Sheets[0].Content[0].Body)
}

func TestPersistenceFailure_WarnsButKeepsOptimisticState(t *testing.T) {
	h := newHarness(t, false)
	require.NoError(t, h.session.store.db.Close())

	c, err := h.session.Create(h.ctx, draft("memory only"))
	require.NoError(t, err)
	assert.Equal(t, PathOffline, c.Path)

	view := h.session.View()
	require.Len(t, view.Sheets, 1)

	warnings := h.warningsSnapshot()
	require.NotEmpty(t, warnings)
	assert.Equal(t, Persistence, warnings[0].Class)
	assert.True(t, strings.Contains(warnings[0].Op, "queue"))
}

func TestStartLoadingFlag(t *testing.T) {
	h := newHarness(t, true)
	assert.False(t, h.session.View().Loading)
	assert.True(t, h.session.View().Online)
}

func TestSubscribe_CallbackMayMutateSession(t *testing.T) {
	h := newHarness(t, false)

	var (
		once    sync.Once
		pending int
		pErr    error
		fErr    error
	)
	h.session.Subscribe(func(s Snapshot) {
		if len(s.Sheets) != 1 {
			return
		}
		once.Do(func() {
			pending, pErr = h.session.Pending(h.ctx)
			_, fErr = h.session.ToggleFavorite(h.ctx, s.Sheets[0].ID)
		})
	})

	done := make(chan error, 1)
	go func() {
		_, err := h.session.Create(h.ctx, draft("reentrant"))
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Create did not return: subscriber blocked on the operation lock")
	}

	require.NoError(t, pErr)
	require.NoError(t, fErr)
	assert.Equal(t, 1, pending)
	require.Len(t, h.session.View().Sheets, 1)
	assert.True(t, h.session.View().Sheets[0].Favorite)
}

func TestOnWarning_CallbackMayCallSession(t *testing.T) {
	h := newHarness(t, false)

	var once sync.Once
	called := make(chan struct{}, 1)
	h.session.OnWarning(func(Warning) {
		once.Do(func() {
			_ = h.session.Refresh(h.ctx)
			called <- struct{}{}
		})
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.session.lock.Lock()
		h.session.emitWarning(Warning{Op: "test", Err: errors.New("queued while locked")})
		h.session.lock.Unlock()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("warning delivery blocked on the operation lock")
	}
	select {
	case <-called:
	default:
		t.Fatal("warning was not delivered after unlock")
	}
}
