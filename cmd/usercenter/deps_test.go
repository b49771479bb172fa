// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/usercenter/usercenter/internal/auth/memory"
	"github.com/usercenter/usercenter/internal/config"
	"github.com/usercenter/usercenter/internal/observability"
)

// mockObservabilityServer implements ObservabilityServer for testing.
type mockObservabilityServer struct {
	startFunc func() (<-chan error, error)
	stopFunc  func(ctx context.Context) error
	ready     observability.ReadinessChecker
	metrics   *observability.Metrics
	stopped   bool
}

func (m *mockObservabilityServer) Start() (<-chan error, error) {
	if m.startFunc != nil {
		return m.startFunc()
	}
	ch := make(chan error, 1)
	return ch, nil
}

func (m *mockObservabilityServer) Stop(ctx context.Context) error {
	m.stopped = true
	if m.stopFunc != nil {
		return m.stopFunc(ctx)
	}
	return nil
}

func (m *mockObservabilityServer) Addr() string {
	return "127.0.0.1:9100"
}

func (m *mockObservabilityServer) Metrics() *observability.Metrics {
	return m.metrics
}

// mockAPIServer implements APIServer for testing.
type mockAPIServer struct {
	startFunc func() (<-chan error, error)
	handler   http.Handler
	started   bool
	stopped   bool
}

func (m *mockAPIServer) Start() (<-chan error, error) {
	m.started = true
	if m.startFunc != nil {
		return m.startFunc()
	}
	ch := make(chan error, 1)
	return ch, nil
}

func (m *mockAPIServer) Stop(context.Context) error {
	m.stopped = true
	return nil
}

func (m *mockAPIServer) Addr() string {
	return "127.0.0.1:8080"
}

// mockMigrator implements AutoMigrator and migrator for testing.
type mockMigrator struct {
	upCalled    bool
	upError     error
	downCalled  bool
	steps       int
	forced      int
	version     uint
	dirty       bool
	closeCalled bool
	closeError  error
}

func (m *mockMigrator) Up() error {
	m.upCalled = true
	return m.upError
}

func (m *mockMigrator) Down() error {
	m.downCalled = true
	return nil
}

func (m *mockMigrator) Steps(n int) error {
	m.steps = n
	return nil
}

func (m *mockMigrator) Version() (uint, bool, error) {
	return m.version, m.dirty, nil
}

func (m *mockMigrator) Force(version int) error {
	m.forced = version
	return nil
}

func (m *mockMigrator) PendingMigrations() ([]uint, error) {
	var pending []uint
	for _, v := range []uint{1, 2} {
		if v > m.version {
			pending = append(pending, v)
		}
	}
	return pending, nil
}

func (m *mockMigrator) AppliedMigrations() ([]uint, error) {
	var applied []uint
	for _, v := range []uint{1, 2} {
		if v <= m.version {
			applied = append(applied, v)
		}
	}
	return applied, nil
}

func (m *mockMigrator) Close() error {
	m.closeCalled = true
	return m.closeError
}

// testDeps returns deps backed by memory stores and mock servers.
func testDeps(api *mockAPIServer, obs *mockObservabilityServer, migrator *mockMigrator) *ServeDeps {
	if obs.metrics == nil {
		obs.metrics = observability.NewMetrics(prometheus.NewRegistry())
	}
	return &ServeDeps{
		BackendFactory: func(context.Context, *config.Config) (*Backend, error) {
			return &Backend{
				Users:    memory.NewUserRepository(),
				Sessions: memory.NewSessionStore(),
				Ready:    func() bool { return true },
			}, nil
		},
		MigratorFactory: func(string) (AutoMigrator, error) {
			return migrator, nil
		},
		ObservabilityServerFactory: func(_ string, ready observability.ReadinessChecker) ObservabilityServer {
			obs.ready = ready
			return obs
		},
		APIServerFactory: func(_ string, handler http.Handler) APIServer {
			api.handler = handler
			return api
		},
	}
}

// testConfig returns a valid memory-store configuration.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("", false, nil)
	require.NoError(t, err)
	cfg.Store = config.StoreMemory
	cfg.Auth.Salt = "test-salt"
	return cfg
}
