// Package server wires the remote store: storage backend, services, the gRPC
// API and the HTTP health endpoints, and runs them until the context is cancelled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/cheatsync/internal/logging"
	"github.com/dmitrijs2005/cheatsync/internal/server/config"
	gs "github.com/dmitrijs2005/cheatsync/internal/server/grpc"
	"github.com/dmitrijs2005/cheatsync/internal/server/httpapi"
	"github.com/dmitrijs2005/cheatsync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/cheatsync/internal/server/services"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	grpc        *gs.GRPCServer
	http        *httpapi.Server
}

// openStore picks Postgres when a DSN is configured and process memory
// otherwise, and brings the schema up to date.
func openStore(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, data is kept in memory only")
		return repomanager.NewInMemoryRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	return m, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	m, err := openStore(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	return newApp(c, logger, m), nil
}

func newApp(c *config.Config, logger logging.Logger, m repomanager.RepositoryManager) *App {
	us := services.NewUserService(m, c)
	ss := services.NewSheetService(m)
	cs := services.NewCategoryService(m)

	return &App{
		config:      c,
		logger:      logger,
		repomanager: m,
		grpc:        gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, ss, cs),
		http:        httpapi.NewServer(c.EndpointAddrHTTP, m, logger),
	}
}

// Run serves gRPC and HTTP until ctx is cancelled or either fails; a failure
// of one stops the other. The store is closed on return.
func (app *App) Run(ctx context.Context) error {
	defer func() {
		if err := app.repomanager.Close(); err != nil {
			app.logger.Error(ctx, "failed to close store", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.grpc.Run(ctx) })
	g.Go(func() error { return app.http.Run(ctx) })

	err := g.Wait()
	app.logger.Info(ctx, "App stopped")
	return err
}
