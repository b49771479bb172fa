// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

// Package redis implements auth.SessionStore on Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/usercenter/usercenter/internal/auth"
)

// SessionStore keeps session bindings as JSON strings under
// "<keyPrefix>:<sha256(sessionID)>". A positive TTL slides forward on
// every Get.
type SessionStore struct {
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

// Compile-time interface check.
var _ auth.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore. A zero ttl keeps bindings until
// logout.
func NewSessionStore(client redis.Cmdable, keyPrefix string, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *SessionStore) key(sessionID string) string {
	return s.keyPrefix + ":" + auth.HashSessionID(sessionID)
}

// Bind implements auth.SessionStore.
func (s *SessionStore) Bind(ctx context.Context, sessionID string, user *auth.SafeUser) error {
	if user == nil {
		return oops.Errorf("cannot bind nil user")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return oops.With("operation", "marshal session user").Wrap(err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, s.ttl).Err(); err != nil {
		return oops.With("operation", "set session").
			With("user_id", user.ID).
			Wrap(err)
	}
	return nil
}

// Unbind implements auth.SessionStore.
func (s *SessionStore) Unbind(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.client.Del(ctx, s.key(sessionID)).Result()
	if err != nil {
		return false, oops.With("operation", "delete session").Wrap(err)
	}
	return n > 0, nil
}

// Get implements auth.SessionStore.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (*auth.SafeUser, error) {
	var cmd *redis.StringCmd
	if s.ttl > 0 {
		cmd = s.client.GetEx(ctx, s.key(sessionID), s.ttl)
	} else {
		cmd = s.client.Get(ctx, s.key(sessionID))
	}

	data, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, auth.ErrNotFound
	}
	if err != nil {
		return nil, oops.With("operation", "get session").Wrap(err)
	}

	var user auth.SafeUser
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, oops.With("operation", "unmarshal session user").Wrap(err)
	}
	return &user, nil
}
