// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package auth

import (
	"crypto/md5" //nolint:gosec // G501: stored credentials are MD5 digests; changing it needs a migration
	"encoding/hex"

	"github.com/samber/oops"
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("AUTH_EMPTY_PASSWORD").Errorf("password cannot be empty")

// PasswordHasher derives the stored digest of a password.
type PasswordHasher interface {
	// Hash returns the digest of password. The same input always yields the
	// same digest, so digests can be matched by equality in storage queries.
	Hash(password string) (string, error)
}

// SaltedMD5Hasher hashes passwords as hex(MD5(salt + password)).
type SaltedMD5Hasher struct {
	salt string
}

// NewSaltedMD5Hasher creates a SaltedMD5Hasher using a fixed salt.
func NewSaltedMD5Hasher(salt string) *SaltedMD5Hasher {
	return &SaltedMD5Hasher{salt: salt}
}

// Hash returns the 32 character lowercase hex digest of salt+password.
func (h *SaltedMD5Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	sum := md5.Sum([]byte(h.salt + password)) //nolint:gosec // see import
	return hex.EncodeToString(sum[:]), nil
}
