package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/dmitrijs2005/cheatsync/internal/client/client"
	"github.com/dmitrijs2005/cheatsync/internal/client/config"
	"github.com/dmitrijs2005/cheatsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/cheatsync/internal/client/syncer"
	"github.com/dmitrijs2005/cheatsync/internal/logging"
	"github.com/dmitrijs2005/cheatsync/internal/models"
	"golang.org/x/term"
)

// engine is the part of *syncer.Session the CLI drives.
type engine interface {
	Start(ctx context.Context) error
	Close() error
	Create(ctx context.Context, d models.SheetDraft) (syncer.Commit[models.Sheet], error)
	Update(ctx context.Context, id string, p models.SheetPatch) (syncer.Commit[models.Sheet], error)
	Delete(ctx context.Context, id string) (syncer.Commit[models.Sheet], error)
	Read(ctx context.Context, id string) (models.Sheet, bool, error)
	ToggleFavorite(ctx context.Context, id string) (syncer.Commit[models.Sheet], error)
	ToggleBlockRead(ctx context.Context, id, blockID string) (syncer.Commit[models.Sheet], error)
	CreateCategory(ctx context.Context, d models.CategoryDraft) (syncer.Commit[models.CustomCategory], error)
	DeleteCategory(ctx context.Context, id string) (syncer.Commit[models.CustomCategory], error)
	Refresh(ctx context.Context) error
	Sync(ctx context.Context) error
	View() syncer.Snapshot
	Subscribe(fn func(syncer.Snapshot)) func()
	OnWarning(fn func(syncer.Warning))
	Online() bool
	Pending(ctx context.Context) (int, error)
}

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config  *config.Config
	session engine
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer

	// mode is written by session notifications and read by the prompt.
	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database, builds the gRPC remote store and the sync
// session. Nothing touches the network until Run.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewTextLogger(os.Stderr, level)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	remote, err := client.NewGRPCClient(c.ServerEndpointAddr, metadata.NewSQLiteRepository(db), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	session := syncer.NewSession(syncer.Options{
		Remote:              remote,
		DB:                  db,
		Logger:              logger,
		OnlineCheckInterval: c.OnlineCheckInterval,
		LegacyStorePath:     c.LegacyStorePath,
	})

	return newApp(c, session, logger, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, s engine, log logging.Logger, r *bufio.Reader, w io.Writer) *App {
	return &App{config: c, session: s, log: log, reader: r, out: w}
}

// Mode returns the connectivity mode last reported by the session.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

// Run starts the session, serves the REPL until the user exits and closes the
// session.
func (a *App) Run(ctx context.Context) {
	a.session.OnWarning(func(w syncer.Warning) {
		fmt.Fprintf(a.out, "warning: %s\n", w)
	})

	fmt.Fprintln(a.out, "cheatsync (type 'help' for commands)")
	if err := a.session.Start(ctx); err != nil {
		a.log.Info(ctx, "starting without a fresh server copy", "error", err)
	}
	a.mu.Lock()
	a.mode = modeOf(a.session.Online())
	a.mu.Unlock()

	unsubscribe := a.session.Subscribe(func(s syncer.Snapshot) { a.setMode(modeOf(s.Online)) })
	defer unsubscribe()

	defer func() {
		if err := a.session.Close(); err != nil {
			a.log.Error(ctx, "failed to close session", "error", err)
		}
	}()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	runREPL(ctx, a, a.getStatus, a.reader, interactive)
}

func modeOf(online bool) Mode {
	if online {
		return ModeOnline
	}
	return ModeOffline
}

func (a *App) getStatus() string {
	mode := a.Mode()
	n, err := a.session.Pending(context.Background())
	if err != nil || n == 0 {
		return fmt.Sprintf("(%s)", mode)
	}
	return fmt.Sprintf("(%s, %d pending)", mode, n)
}
