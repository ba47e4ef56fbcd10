// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpost Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/auth"
	authpg "github.com/inkpost/inkpost/internal/auth/postgres"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/content"
	contentpg "github.com/inkpost/inkpost/internal/content/postgres"
	"github.com/inkpost/inkpost/internal/httpapi"
	"github.com/inkpost/inkpost/internal/logging"
	"github.com/inkpost/inkpost/internal/observability"
	"github.com/inkpost/inkpost/internal/store"
)

const shutdownTimeout = 10 * time.Second

// ServeDeps allows tests to inject the database connection.
type ServeDeps struct {
	Connect func(ctx context.Context, databaseURL string) (*pgxpool.Pool, error)
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Inkpost API server",
		Long: `Start the HTTP API server. Configuration comes from the config
file, flags, and environment; later sources win.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, nil)
		},
	}

	// Flag names mirror config keys so they overlay the file directly.
	// Defaults match config.Default; an unchanged flag never overrides a
	// value set in the file.
	defaults := config.Default()
	cmd.Flags().String("server.addr", defaults.Server.Addr, "HTTP listen address")
	cmd.Flags().String("server.metrics_addr", defaults.Server.MetricsAddr, "metrics/health listen address (empty = disabled)")
	cmd.Flags().String("log.format", defaults.Log.Format, "log format (json or text)")

	return cmd
}

// runServeWithDeps starts the server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.Connect == nil {
		deps.Connect = store.Connect
	}

	if err := cfg.Validate(); err != nil {
		return oops.Wrapf(err, "invalid configuration")
	}

	logging.SetDefault("inkpost", version, cfg.Log.Format)

	slog.Info("starting server",
		"addr", cfg.Server.Addr,
		"log_format", cfg.Log.Format,
	)

	pool, err := deps.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return oops.Wrapf(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("connected to database")

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.JWTSecret), cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(authpg.NewIdentityRepository(pool), tokens, &auth.BcryptHasher{})
	if err != nil {
		return err
	}
	contentSvc, err := content.NewService(
		contentpg.NewPostRepository(pool),
		contentpg.NewCommentRepository(pool),
		slog.Default(),
	)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Observability server, readiness tied to the database
	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.Server.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.Server.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Wrapf(err, "start observability server")
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
	}

	api, err := httpapi.NewAPI(authSvc, contentSvc,
		auth.NewCookieStore(cfg.Auth.SecureCookies),
		cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, metrics)
	if err != nil {
		return err
	}

	httpServer := httpapi.NewServer(cfg.Server.Addr, api)
	httpErrCh, err := httpServer.Start()
	if err != nil {
		return oops.Wrapf(err, "start http server")
	}
	go monitorServerErrors(ctx, cancel, httpErrCh, "http")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		slog.Info("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		slog.Warn("failed to stop http server cleanly", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("failed to stop observability server cleanly", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}

// monitorServerErrors cancels the run context when a server reports a
// fatal error after startup.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, name string) {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			slog.Error("server failed", "server", name, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
