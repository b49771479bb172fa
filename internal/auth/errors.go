// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Repositories wrap these when a unique constraint rejects an insert.
var (
	ErrDuplicateAccountName      = errors.New("account name already exists")
	ErrDuplicateRegistrationCode = errors.New("registration code already exists")
)

// Error codes surfaced by Service. Business failures carry one of the first
// five codes; anything a collaborator reports is wrapped with CodeSystemError.
const (
	CodeInvalidParams      = "AUTH_INVALID_PARAMS"
	CodeAccountConflict    = "AUTH_ACCOUNT_CONFLICT"
	CodeCodeConflict       = "AUTH_CODE_CONFLICT"
	CodePersistFailed      = "AUTH_PERSIST_FAILED"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeNotLoggedIn        = "AUTH_NOT_LOGGED_IN"
	CodeForbidden          = "AUTH_FORBIDDEN"
	CodeSystemError        = "AUTH_SYSTEM_ERROR"
)
