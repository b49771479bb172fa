// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package memory

import (
	"context"
	"sync"

	"github.com/samber/oops"

	"github.com/usercenter/usercenter/internal/auth"
)

// SessionStore is an in-memory auth.SessionStore. Bindings never expire.
type SessionStore struct {
	mu       sync.RWMutex
	bindings map[string]auth.SafeUser
}

// Compile-time interface check.
var _ auth.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{bindings: make(map[string]auth.SafeUser)}
}

// Bind implements auth.SessionStore.
func (s *SessionStore) Bind(_ context.Context, sessionID string, user *auth.SafeUser) error {
	if user == nil {
		return oops.Errorf("cannot bind nil user")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bindings[auth.HashSessionID(sessionID)] = copySafeUser(user)
	return nil
}

// Unbind implements auth.SessionStore.
func (s *SessionStore) Unbind(_ context.Context, sessionID string) (bool, error) {
	key := auth.HashSessionID(sessionID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bindings[key]; !ok {
		return false, nil
	}
	delete(s.bindings, key)
	return true, nil
}

// Get implements auth.SessionStore.
func (s *SessionStore) Get(_ context.Context, sessionID string) (*auth.SafeUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.bindings[auth.HashSessionID(sessionID)]
	if !ok {
		return nil, auth.ErrNotFound
	}
	c := copySafeUser(&user)
	return &c, nil
}

func copySafeUser(u *auth.SafeUser) auth.SafeUser {
	c := *u
	if u.RegistrationCode != nil {
		code := *u.RegistrationCode
		c.RegistrationCode = &code
	}
	return c
}
