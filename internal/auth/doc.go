// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

// Package auth provides account registration, login and session binding for
// UserCenter.
//
// # Domain Types
//
// User is the persisted account record. SafeUser is its credential-free
// projection, built with Redact and safe to return to callers or bind to a
// session. Only the salted digest of a password is ever stored or compared.
//
// # Validation
//
// ValidateRegistration and ValidateLogin are pure checks that return a
// *ValidationError naming the first rule that failed.
//
// # Services
//
// Service coordinates validation, the UserRepository, the PasswordHasher and
// the SessionStore:
//   - Register - validated account creation with uniqueness enforcement
//   - Login - credential check and session binding
//   - Logout - idempotent session unbinding
//   - Current, Search, Delete - session-scoped lookups and admin operations
//
// Services are created with NewAuthService or NewAuthServiceWithLogger,
// which validate their dependencies.
package auth
