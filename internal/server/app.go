// Package server wires configuration, storage, services and transports into
// a runnable vault server.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/dbx"
	"github.com/dmitrijs2005/buidlvault/internal/logging"
	"github.com/dmitrijs2005/buidlvault/internal/server/blobs"
	"github.com/dmitrijs2005/buidlvault/internal/server/config"
	"github.com/dmitrijs2005/buidlvault/internal/server/metrics"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/memory"
	"github.com/dmitrijs2005/buidlvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/buidlvault/internal/server/services"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/buidlvault/internal/server/grpc"
)

const (
	shutdownTimeout = 10 * time.Second
	purgeInterval   = time.Minute
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	metrics  *metrics.Metrics
	grpc     *gs.GRPCServer
	sessions *services.SessionService
	db       *sql.DB
}

// NewApp opens storage and builds every service. Logs go to out as JSON.
func NewApp(ctx context.Context, cfg *config.Config, out io.Writer) (*App, error) {
	logger, err := logging.NewJSON(out, cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	programID, err := address.Parse(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("invalid program id: %w", err)
	}
	deriver, err := address.NewDeriver(programID, cfg.AddressCacheSize)
	if err != nil {
		return nil, fmt.Errorf("address deriver init error: %w", err)
	}

	app := &App{config: cfg, logger: logger, metrics: metrics.New()}

	env := services.Env{
		Deriver: deriver,
		Clock:   clock.New(),
		Logger:  logger,
		Metrics: app.metrics,
	}

	if cfg.UsesMemoryStore() {
		logger.Warn(ctx, "Using in-memory store, state is lost on exit")
		store := memory.New()
		env.Runner, env.DB, env.Repos = store, store.Handle(), store
	} else {
		db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm := repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			return nil, multierr.Append(fmt.Errorf("migration error: %w", err), db.Close())
		}
		app.db = db
		env.Runner, env.DB, env.Repos = dbx.NewSQLRunner(db), db, rm
	}

	var presigner blobs.Presigner
	if cfg.S3Bucket != "" {
		presigner = blobs.NewS3Presigner(blobs.Options{
			User:     cfg.S3RootUser,
			Password: cfg.S3RootPassword,
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3BaseEndpoint,
		})
	} else {
		logger.Info(ctx, "No S3 bucket configured, update attachments disabled")
	}

	app.sessions = services.NewSessionService(env, services.SessionConfig{
		SecretKey:            cfg.SecretKey,
		AccessTokenValidity:  cfg.AccessTokenValidityDuration,
		RefreshTokenValidity: cfg.RefreshTokenValidityDuration,
		ChallengeValidity:    cfg.ChallengeValidityDuration,
	})

	app.grpc = gs.NewGRPCServer(cfg.EndpointAddrGRPC, logger, app.metrics, gs.Services{
		Sessions:  app.sessions,
		Tokens:    services.NewTokenService(env),
		Campaigns: services.NewCampaignService(env),
		Proposals: services.NewProposalService(env),
		Updates:   services.NewUpdateService(env, presigner),
	})

	return app, nil
}

// Run serves gRPC and metrics until ctx is done or either server fails.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...", "program_id", app.config.ProgramID)

	var metricsLis net.Listener
	if app.config.MetricsAddr != "" {
		lis, err := net.Listen("tcp", app.config.MetricsAddr)
		if err != nil {
			return multierr.Append(fmt.Errorf("metrics listen error: %w", err), app.Close())
		}
		metricsLis = lis
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return app.grpc.Run(gctx)
	})
	g.Go(func() error {
		app.purgeSessions(gctx, purgeInterval)
		return nil
	})
	if metricsLis != nil {
		g.Go(func() error {
			return app.serveMetrics(gctx, metricsLis)
		})
	}

	err := g.Wait()
	app.logger.Info(ctx, "App stopped")
	return multierr.Append(err, app.Close())
}

func (app *App) serveMetrics(ctx context.Context, lis net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// purgeSessions drops expired refresh tokens and challenges every interval.
// Failures are logged and retried on the next tick.
func (app *App) purgeSessions(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := app.sessions.PurgeExpired(ctx); err != nil && ctx.Err() == nil {
				app.logger.Warn(ctx, "session purge failed", "error", err)
			}
		}
	}
}

// Close releases the database, if one was opened.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	err := app.db.Close()
	app.db = nil
	return err
}

// Migrate applies the schema migrations and exits. The memory store has no
// schema.
func Migrate(ctx context.Context, cfg *config.Config) (err error) {
	if cfg.UsesMemoryStore() {
		return nil
	}
	db, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer func() { err = multierr.Append(err, db.Close()) }()

	return repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db)
}
