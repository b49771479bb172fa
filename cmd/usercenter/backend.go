// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"

	"github.com/usercenter/usercenter/internal/auth/memory"
	"github.com/usercenter/usercenter/internal/auth/postgres"
	authredis "github.com/usercenter/usercenter/internal/auth/redis"
	"github.com/usercenter/usercenter/internal/config"
	"github.com/usercenter/usercenter/internal/store"
)

// readinessTimeout bounds each readiness probe against a store.
const readinessTimeout = 2 * time.Second

// newBackend opens the backend selected by cfg.Store.
func newBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store {
	case config.StoreMemory:
		slog.Warn("using in-memory store; accounts and sessions are lost on restart")
		return &Backend{
			Users:    memory.NewUserRepository(),
			Sessions: memory.NewSessionStore(),
		}, nil
	case config.StorePostgres:
		return newPostgresBackend(ctx, cfg)
	default:
		return nil, oops.Code("CONFIG_INVALID").With("store", cfg.Store).Errorf("unknown store")
	}
}

func newPostgresBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	pool, err := store.Connect(ctx, cfg.Database.URL, store.ConnectOptions{
		MaxConns: cfg.Database.MaxConns,
		Logger:   slog.Default(),
	})
	if err != nil {
		return nil, oops.With("operation", "connect to database").Wrap(err)
	}
	slog.Info("connected to database")

	client, err := authredis.NewClient(ctx, authredis.ClientConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		pool.Close()
		return nil, oops.With("operation", "connect to redis").Wrap(err)
	}
	slog.Info("connected to redis", "addr", cfg.Redis.Addr)

	dbReady := store.ReadinessCheck(pool, readinessTimeout)
	redisReady := store.ReadinessCheck(authredis.Pinger(client), readinessTimeout)

	return &Backend{
		Users:    postgres.NewUserRepository(pool),
		Sessions: authredis.NewSessionStore(client, cfg.Auth.SessionKey, cfg.Auth.SessionTTL),
		Ready: func() bool {
			return dbReady() && redisReady()
		},
		Close: func() {
			if err := client.Close(); err != nil {
				slog.Warn("error closing redis client", "error", err)
			}
			pool.Close()
		},
	}, nil
}
