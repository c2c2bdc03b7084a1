// Package server wires the platform emulator: Postgres, object storage,
// the gRPC service, the HTTP API and background housekeeping.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/aora/internal/logging"
	"github.com/dmitrijs2005/aora/internal/metrics"
	"github.com/dmitrijs2005/aora/internal/server/config"
	"github.com/dmitrijs2005/aora/internal/server/httpapi"
	"github.com/dmitrijs2005/aora/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/aora/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/aora/internal/server/grpc"
)

// HousekeepingInterval is how often expired sessions are purged.
const HousekeepingInterval = 10 * time.Minute

var (
	openDatabase   = repomanager.OpenDatabase
	newObjectStore = func(ctx context.Context, cfg *config.Config) (services.ObjectStore, error) {
		return services.NewS3Store(ctx, cfg)
	}
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	registry  *prometheus.Registry
	metrics   *metrics.Collector
	accounts  *services.AccountService
	documents *services.DocumentService
	files     *services.FileService
}

func NewApp(ctx context.Context, cfg *config.Config, l logging.Logger) (*App, error) {
	rm := repomanager.NewPostgresRepositoryManager()

	db, err := openDatabase(ctx, cfg.DatabaseDSN, rm)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewCollector(reg)

	return &App{
		config:    cfg,
		logger:    l,
		db:        db,
		registry:  reg,
		metrics:   rec,
		accounts:  services.NewAccountService(db, rm, cfg, rec, l),
		documents: services.NewDocumentService(db, rm, l),
		files:     services.NewFileService(db, rm, store, cfg, rec, l),
	}, nil
}

func (app *App) Close() error {
	return app.db.Close()
}

// Run serves gRPC and HTTP until ctx is cancelled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.GRPCAddr, app.config.ProjectID, app.logger,
			app.accounts, app.documents, app.files, app.metrics)
		return s.Run(ctx)
	})
	g.Go(func() error {
		return app.runHTTP(ctx)
	})
	g.Go(func() error {
		app.housekeep(ctx, HousekeepingInterval)
		return nil
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

func (app *App) runHTTP(ctx context.Context) error {
	srv := &http.Server{
		Addr: app.config.HTTPAddr,
		Handler: httpapi.NewRouter(&httpapi.RouterDeps{
			PathPrefix:     app.config.PathPrefix,
			ProjectID:      app.config.ProjectID,
			Files:          app.files,
			Metrics:        app.metrics,
			MetricsHandler: metrics.Handler(app.registry),
			Logger:         app.logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// housekeep purges expired sessions every interval until ctx ends.
func (app *App) housekeep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := app.accounts.Housekeep(ctx); err != nil {
				app.logger.Warn(ctx, "housekeeping failed", "error", err)
			}
		}
	}
}
