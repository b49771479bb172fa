// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/usercenter/usercenter/internal/auth"
	"github.com/usercenter/usercenter/internal/config"
	"github.com/usercenter/usercenter/internal/httpapi"
	"github.com/usercenter/usercenter/internal/logging"
	"github.com/usercenter/usercenter/internal/observability"
	"github.com/usercenter/usercenter/internal/store"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the usercenter HTTP API. Configuration is read from the config
file, USERCENTER_* environment variables and the flags below, in increasing
order of precedence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	// Defaults live in config.Defaults; unchanged flags never override them.
	flags := cmd.Flags()
	flags.String("store", "", "storage backend (postgres or memory)")
	flags.String("salt", "", "password hashing salt")
	flags.String("session-key", "", "redis key prefix for session bindings")
	flags.Duration("session-ttl", 0, "idle session lifetime (0 = no expiry)")
	flags.String("failure-mode", "", "business failure reporting (error or sentinel)")
	flags.Bool("require-registration-code", true, "require a registration code on sign up")
	flags.String("http-addr", "", "API listen address")
	flags.Duration("request-timeout", 0, "per-request timeout")
	flags.String("metrics-addr", "", "metrics/health HTTP address")
	flags.String("database-url", "", "PostgreSQL connection URL")
	flags.Bool("auto-migrate", true, "apply pending migrations on startup")
	flags.String("redis-addr", "", "Redis address for sessions")
	flags.String("log-format", "", "log format (json or text)")

	return cmd
}

// runServeWithDeps starts the API server with injectable dependencies.
// If deps is nil, default implementations are used.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.BackendFactory == nil {
		deps.BackendFactory = newBackend
	}
	if deps.MigratorFactory == nil {
		deps.MigratorFactory = func(databaseURL string) (AutoMigrator, error) {
			return store.NewMigrator(databaseURL)
		}
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, readinessChecker)
		}
	}
	if deps.APIServerFactory == nil {
		deps.APIServerFactory = func(addr string, handler http.Handler) APIServer {
			return httpapi.NewServer(addr, handler)
		}
	}

	if err := cfg.Validate(); err != nil {
		return oops.With("operation", "validate configuration").Wrap(err)
	}

	logger := logging.SetDefault("usercenter", version, cfg.Log.Format)
	gin.SetMode(gin.ReleaseMode)

	logger.Info("starting usercenter",
		"store", cfg.Store,
		"http_addr", cfg.HTTP.Addr,
		"failure_mode", cfg.Auth.FailureMode,
	)

	if cfg.Store == config.StorePostgres && cfg.Database.AutoMigrate {
		if err := runAutoMigrate(deps.MigratorFactory, cfg.Database.URL); err != nil {
			return err
		}
	}

	backend, err := deps.BackendFactory(ctx, cfg)
	if err != nil {
		return oops.With("operation", "open backend").Wrap(err)
	}
	if backend.Close != nil {
		defer backend.Close()
	}

	svc, err := auth.NewAuthServiceWithLogger(
		backend.Users,
		backend.Sessions,
		auth.NewSaltedMD5Hasher(cfg.Auth.Salt),
		cfg.AuthOptions(),
		logger.With("component", "auth"),
	)
	if err != nil {
		return oops.With("operation", "create auth service").Wrap(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		ready := backend.Ready
		if ready == nil {
			ready = func() bool { return true }
		}
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, ready)
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.With("operation", "start observability server").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability")
		metrics = obsServer.Metrics()
	}

	router, err := httpapi.NewRouter(httpapi.Options{
		Service: svc,
		Cookie: httpapi.CookieConfig{
			Name:   cfg.HTTP.CookieName,
			Secure: cfg.HTTP.CookieSecure,
			MaxAge: cfg.Auth.SessionTTL,
		},
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Logger:         logger.With("component", "http"),
		Metrics:        metrics,
	})
	if err != nil {
		stopServer(obsServer, "observability")
		return oops.With("operation", "build router").Wrap(err)
	}

	apiServer := deps.APIServerFactory(cfg.HTTP.Addr, router)
	apiErrChan, err := apiServer.Start()
	if err != nil {
		stopServer(obsServer, "observability")
		return oops.With("operation", "start api server").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("usercenter started")
	logger.Info("usercenter ready", "http_addr", apiServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	stopServer(apiServer, "api")
	stopServer(obsServer, "observability")

	logger.Info("shutdown complete")
	return nil
}

// runAutoMigrate applies pending migrations. The migrator is always closed.
func runAutoMigrate(factory func(string) (AutoMigrator, error), databaseURL string) (err error) {
	migrator, err := factory(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "create migrator").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("error closing migrator", "error", closeErr)
		}
	}()

	slog.Info("applying database migrations")
	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "auto-migrate").Wrap(err)
	}
	return nil
}

type stoppable interface {
	Stop(ctx context.Context) error
}

// stopServer stops s with a bounded context. A nil interface is ignored.
func stopServer(s stoppable, name string) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

// monitorServerErrors cancels ctx when a server reports an error.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
