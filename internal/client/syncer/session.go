package syncer

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/client/client"
	"github.com/dmitrijs2005/cheatsync/internal/common"
	"github.com/dmitrijs2005/cheatsync/internal/logging"
	"github.com/dmitrijs2005/cheatsync/internal/models"
	"github.com/rs/xid"
)

const DefaultOnlineCheckInterval = 3 * time.Second

type Options struct {
	Remote              client.RemoteStore
	DB                  *sql.DB
	Logger              logging.Logger
	OnlineCheckInterval time.Duration
	LegacyStorePath     string

	// Now and LocalID default to time.Now and "local-"+xid.
	Now     func() time.Time
	LocalID func() string
}

// Session owns the sync engine of one client: cache, queue, connectivity
// monitor, view, reconciler and router. Every mutation and every reconcile
// pass runs under one operation lock.
type Session struct {
	remote     client.RemoteStore
	store      *Store
	queue      *Queue
	view       *View
	monitor    *Monitor
	reconciler *Reconciler
	router     *Router
	log        logging.Logger

	lock opLock

	warnMu   sync.Mutex
	warnSubs []func(Warning)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewLocalID() string {
	return common.LocalIDPrefix + xid.New().String()
}

func NewSession(opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LocalID == nil {
		opts.LocalID = NewLocalID
	}
	if opts.OnlineCheckInterval <= 0 {
		opts.OnlineCheckInterval = DefaultOnlineCheckInterval
	}

	s := &Session{
		remote: opts.Remote,
		store:  NewStore(opts.DB),
		view:   NewView(),
		log:    opts.Logger,
	}
	s.view.deliver = s.lock.deliver
	s.monitor = NewMonitor(opts.Remote, opts.OnlineCheckInterval, opts.Logger)
	s.queue = NewQueue(s.store, opts.Logger, s.emitWarning, opts.Now)

	legacy := &LegacyImporter{
		path:    opts.LegacyStorePath,
		store:   s.store,
		queue:   s.queue,
		log:     opts.Logger,
		warn:    s.emitWarning,
		now:     opts.Now,
		localID: opts.LocalID,
	}
	s.reconciler = &Reconciler{
		remote:  opts.Remote,
		store:   s.store,
		queue:   s.queue,
		view:    s.view,
		monitor: s.monitor,
		legacy:  legacy,
		log:     opts.Logger,
		warn:    s.emitWarning,
		now:     opts.Now,
	}
	s.router = &Router{
		remote:  opts.Remote,
		store:   s.store,
		queue:   s.queue,
		view:    s.view,
		monitor: s.monitor,
		lock:    &s.lock,
		log:     opts.Logger,
		warn:    s.emitWarning,
		now:     opts.Now,
		localID: opts.LocalID,
	}
	return s
}

// Start checks connectivity, runs the first reconcile pass and starts the
// background monitor. The session is usable even when the first pass fails;
// the error is returned for reporting.
func (s *Session) Start(ctx context.Context) error {
	s.monitor.OnChange(func(_ context.Context, online bool) { s.view.setOnline(online) })

	s.view.setLoading(true)
	s.monitor.Check(ctx)

	s.lock.Lock()
	err := s.reconciler.Run(ctx)
	s.lock.Unlock()
	s.view.setLoading(false)

	if err != nil {
		s.log.Warn(ctx, "initial reconcile failed", "error", err)
	}

	s.monitor.OnChange(s.onConnectivity)

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.monitor.Run(runCtx)
	}()

	return err
}

func (s *Session) onConnectivity(ctx context.Context, online bool) {
	if !online {
		return
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.reconciler.Run(ctx); err != nil {
		s.log.Warn(ctx, "reconcile after reconnect failed", "error", err)
	}
}

// Stop halts the background monitor.
func (s *Session) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// Close stops the session and releases the remote connection and the cache.
func (s *Session) Close() error {
	s.Stop()
	rerr := s.remote.Close()
	if err := s.store.Close(); err != nil {
		return err
	}
	return rerr
}

func (s *Session) Create(ctx context.Context, draft models.SheetDraft) (Commit[models.Sheet], error) {
	return s.router.Create(ctx, draft)
}

func (s *Session) Update(ctx context.Context, id string, patch models.SheetPatch) (Commit[models.Sheet], error) {
	return s.router.Update(ctx, id, patch)
}

func (s *Session) Delete(ctx context.Context, id string) (Commit[models.Sheet], error) {
	return s.router.Delete(ctx, id)
}

func (s *Session) Read(ctx context.Context, id string) (models.Sheet, bool, error) {
	return s.router.Read(ctx, id)
}

func (s *Session) ToggleFavorite(ctx context.Context, id string) (Commit[models.Sheet], error) {
	return s.router.ToggleFavorite(ctx, id)
}

func (s *Session) ToggleBlockRead(ctx context.Context, id, blockID string) (Commit[models.Sheet], error) {
	return s.router.ToggleBlockRead(ctx, id, blockID)
}

func (s *Session) CreateCategory(ctx context.Context, draft models.CategoryDraft) (Commit[models.CustomCategory], error) {
	return s.router.CreateCategory(ctx, draft)
}

func (s *Session) DeleteCategory(ctx context.Context, id string) (Commit[models.CustomCategory], error) {
	return s.router.DeleteCategory(ctx, id)
}

// Refresh refetches canonical data and republishes the view without draining
// the queue.
func (s *Session) Refresh(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.reconciler.Refresh(ctx)
}

// Sync runs a full reconcile pass, draining the queue first.
func (s *Session) Sync(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.reconciler.Run(ctx)
}

func (s *Session) View() Snapshot {
	return s.view.Snapshot()
}

// Subscribe calls fn with a fresh snapshot after every change. Changes made
// by an operation are delivered once it has released the operation lock, so
// fn may call back into the session.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	return s.view.Subscribe(fn)
}

// OnWarning registers fn for dropped queue items and failed local writes.
// Warnings are delivered the same way as view changes.
func (s *Session) OnWarning(fn func(Warning)) {
	s.warnMu.Lock()
	defer s.warnMu.Unlock()
	s.warnSubs = append(s.warnSubs, fn)
}

func (s *Session) Online() bool {
	return s.monitor.Online()
}

// Pending returns the number of queued changes.
func (s *Session) Pending(ctx context.Context) (int, error) {
	return s.queue.Len(ctx)
}

// CheckConnectivity pings the remote store now instead of waiting for the
// next tick.
func (s *Session) CheckConnectivity(ctx context.Context) bool {
	return s.monitor.Check(ctx)
}

func (s *Session) emitWarning(w Warning) {
	s.warnMu.Lock()
	subs := append([]func(Warning){}, s.warnSubs...)
	s.warnMu.Unlock()

	s.lock.deliver(func() {
		for _, fn := range subs {
			fn(w)
		}
	})
}
