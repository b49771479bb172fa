// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package main

import (
	"context"
	"net/http"

	"github.com/usercenter/usercenter/internal/auth"
	"github.com/usercenter/usercenter/internal/config"
	"github.com/usercenter/usercenter/internal/observability"
)

// ServeDeps contains injectable dependencies for the serve command.
// All fields with nil values will use their default implementations.
type ServeDeps struct {
	// BackendFactory opens the user repository and session store.
	// Default: newBackend
	BackendFactory func(ctx context.Context, cfg *config.Config) (*Backend, error)

	// MigratorFactory creates a migrator for automatic migration on startup.
	// Default: store.NewMigrator
	MigratorFactory func(databaseURL string) (AutoMigrator, error)

	// ObservabilityServerFactory creates an observability server.
	// Default: observability.NewServer
	ObservabilityServerFactory func(addr string, readinessChecker observability.ReadinessChecker) ObservabilityServer

	// APIServerFactory creates the HTTP API server.
	// Default: httpapi.NewServer
	APIServerFactory func(addr string, handler http.Handler) APIServer
}

// Backend bundles the storage the auth service runs on.
type Backend struct {
	Users    auth.UserRepository
	Sessions auth.SessionStore
	// Ready reports whether every store answers; nil means always ready.
	Ready func() bool
	// Close releases connections; may be nil.
	Close func()
}

// AutoMigrator wraps the methods serve uses from store.Migrator.
type AutoMigrator interface {
	Up() error
	Close() error
}

// ObservabilityServer wraps the methods used from observability.Server.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// APIServer wraps the methods used from httpapi.Server.
type APIServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
}
