// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

// ClientConfig holds connection settings for NewClient.
type ClientConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewClient connects to Redis and verifies the connection with PING.
// The caller owns the returned client and must Close it.
func NewClient(ctx context.Context, cfg ClientConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, oops.Code("REDIS_CONNECT_FAILED").
			With("addr", cfg.Addr).
			Wrap(err)
	}
	return client, nil
}

// Pinger adapts a client to the Ping(ctx) error shape used by readiness checks.
func Pinger(client redis.Cmdable) interface{ Ping(context.Context) error } {
	return clientPinger{client: client}
}

type clientPinger struct {
	client redis.Cmdable
}

func (p clientPinger) Ping(ctx context.Context) error {
	//nolint:wrapcheck // readiness only needs success or failure
	return p.client.Ping(ctx).Err()
}
