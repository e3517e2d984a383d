package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/musiclabel/internal/auth"
	"github.com/desertthunder/musiclabel/internal/handlers"
	"github.com/desertthunder/musiclabel/internal/repositories"
	"github.com/desertthunder/musiclabel/internal/server"
	"github.com/desertthunder/musiclabel/internal/shared"
)

const limiterIdle = 10 * time.Minute

// openDatabase opens and configures the configured database, applying migrations when migrate is set.
func (r *Runner) openDatabase(config *shared.Config, migrate bool) (*sqlx.DB, error) {
	db, err := shared.NewDatabase(config.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	if migrate {
		r.logger.Debug("running database migrations", "driver", db.DriverName())
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return db, nil
}

// buildAPI wires the verifier, repositories and optional middleware into the API router.
func (r *Runner) buildAPI(ctx context.Context, config *shared.Config, db *sqlx.DB, metrics bool) (*server.MuxRouter, error) {
	verifier, err := auth.NewVerifier(config.Auth, r.httpClient)
	if err != nil {
		return nil, err
	}

	opts := handlers.APIOptions{
		Verifier: verifier,
		Artists:  repositories.NewArtistRepository(db),
		Albums:   repositories.NewAlbumRepository(db),
		Logger:   r.logger,
	}
	if metrics {
		opts.Metrics = server.NewMetrics("musiclabel")
	}
	if config.Server.RateLimit > 0 {
		opts.RateLimiter = server.NewRateLimiter(config.Server.RateLimit, config.Server.Burst)
		opts.RateLimiter.StartCleanup(ctx, limiterIdle)
	}

	return handlers.NewAPI(opts), nil
}

// Serve runs the API until SIGINT or SIGTERM.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := r.openDatabase(config, cmd.Bool("migrate"))
	if err != nil {
		return err
	}
	defer db.Close()

	api, err := r.buildAPI(ctx, config, db, cmd.Bool("metrics"))
	if err != nil {
		return err
	}

	srv := server.NewHTTPServer(config.Server, api)
	if addr := cmd.String("addr"); addr != "" {
		srv.Addr = addr
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	r.logger.Info("serving", "addr", ln.Addr().String(), "mode", config.Auth.Mode, "driver", db.DriverName())
	return server.Serve(ctx, srv, ln, config.Server.ShutdownTimeout.Duration, r.logger)
}
