// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	"github.com/samber/oops"
)

// SessionIDBytes is the amount of randomness in a session ID (64 hex chars).
const SessionIDBytes = 32

// SessionStore binds authenticated users to session IDs.
type SessionStore interface {
	// Bind associates user with sessionID, replacing any previous binding.
	Bind(ctx context.Context, sessionID string, user *SafeUser) error

	// Unbind removes the binding for sessionID and reports whether one existed.
	Unbind(ctx context.Context, sessionID string) (bool, error)

	// Get returns the user bound to sessionID. Returns ErrNotFound if unbound.
	Get(ctx context.Context, sessionID string) (*SafeUser, error)
}

// NewSessionID returns a random, hex encoded session ID.
func NewSessionID() (string, error) {
	b := make([]byte, SessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", oops.Code("SESSION_ID_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionIDBytes).
			Wrap(err)
	}
	return hex.EncodeToString(b), nil
}

// HashSessionID returns the SHA256 hex digest of a session ID.
// Stores key bindings by this digest so raw IDs never reach storage.
func HashSessionID(sessionID string) string {
	h := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(h[:])
}
