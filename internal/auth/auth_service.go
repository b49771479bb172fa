// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/samber/oops"

	"github.com/usercenter/usercenter/pkg/errutil"
)

// FailureMode selects how Register and Login report business failures.
type FailureMode string

// Failure modes.
const (
	// FailureModeError returns coded errors for every failure.
	FailureModeError FailureMode = "error"

	// FailureModeSentinel logs business failures and returns InvalidUserID
	// from Register or a nil user from Login, with a nil error. System
	// failures are still returned as errors.
	FailureModeSentinel FailureMode = "sentinel"
)

// InvalidUserID is the Register result for a failed registration in
// FailureModeSentinel.
const InvalidUserID int64 = -1

// Options holds the immutable settings a Service is built with.
type Options struct {
	FailureMode FailureMode

	// RequireRegistrationCode makes the registration code mandatory.
	// Otherwise it is optional and unique only when present.
	RequireRegistrationCode bool
}

// RegisterRequest carries registration input.
type RegisterRequest struct {
	AccountName      string
	Password         string
	ConfirmPassword  string
	RegistrationCode string
}

// Service provides registration and session-based authentication.
type Service struct {
	users    UserRepository
	sessions SessionStore
	hasher   PasswordHasher
	opts     Options
	logger   *slog.Logger
}

// NewAuthService creates a new Service with a no-op logger.
// Returns an error if any required dependency is nil.
func NewAuthService(users UserRepository, sessions SessionStore, hasher PasswordHasher, opts Options) (*Service, error) {
	return NewAuthServiceWithLogger(users, sessions, hasher, opts, slog.New(slog.DiscardHandler))
}

// NewAuthServiceWithLogger creates a new Service with the provided logger.
// Returns an error if any required dependency is nil.
func NewAuthServiceWithLogger(users UserRepository, sessions SessionStore, hasher PasswordHasher, opts Options, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("users repository is required")
	}
	if sessions == nil {
		return nil, oops.Errorf("session store is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if logger == nil {
		return nil, oops.Errorf("logger is required")
	}
	switch opts.FailureMode {
	case "":
		opts.FailureMode = FailureModeError
	case FailureModeError, FailureModeSentinel:
	default:
		return nil, oops.With("failure_mode", string(opts.FailureMode)).Errorf("unknown failure mode")
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		opts:     opts,
		logger:   logger,
	}, nil
}

// Register creates an account and returns its ID.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (int64, error) {
	id, err := s.register(ctx, req)
	if err != nil {
		if s.swallow(ctx, "register", err) {
			return InvalidUserID, nil
		}
		return InvalidUserID, err
	}
	s.logger.InfoContext(ctx, "account registered", "user_id", id)
	return id, nil
}

func (s *Service) register(ctx context.Context, req RegisterRequest) (int64, error) {
	if err := ValidateRegistration(req.AccountName, req.Password, req.ConfirmPassword, req.RegistrationCode, s.opts.RequireRegistrationCode); err != nil {
		return 0, invalidParams(err)
	}

	count, err := s.users.CountByAccountName(ctx, req.AccountName)
	if err != nil {
		return 0, systemError("count by account name", err)
	}
	if count > 0 {
		return 0, accountConflict(req.AccountName)
	}

	var code *string
	if !isBlank(req.RegistrationCode) {
		c := req.RegistrationCode
		code = &c
		count, err = s.users.CountByRegistrationCode(ctx, c)
		if err != nil {
			return 0, systemError("count by registration code", err)
		}
		if count > 0 {
			return 0, codeConflict(c)
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return 0, systemError("hash password", err)
	}

	user := &User{
		AccountName:      req.AccountName,
		PasswordHash:     hash,
		RegistrationCode: code,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		// The pre-insert checks race with concurrent registrations; the
		// repository's unique constraints have the final word.
		switch {
		case errors.Is(err, ErrDuplicateAccountName):
			return 0, accountConflict(req.AccountName)
		case errors.Is(err, ErrDuplicateRegistrationCode):
			return 0, codeConflict(req.RegistrationCode)
		default:
			return 0, oops.Code(CodePersistFailed).
				With("operation", "insert user").
				With("account_name", req.AccountName).
				Wrap(err)
		}
	}
	if user.ID <= 0 {
		return 0, oops.Code(CodePersistFailed).
			With("operation", "insert user").
			With("account_name", req.AccountName).
			Errorf("repository did not assign an id")
	}
	return user.ID, nil
}

// Login verifies credentials, binds the account to sessionID and returns
// the redacted account. Any previous binding on sessionID is replaced.
func (s *Service) Login(ctx context.Context, accountName, password, sessionID string) (*SafeUser, error) {
	user, err := s.login(ctx, accountName, password, sessionID)
	if err != nil {
		if s.swallow(ctx, "login", err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) login(ctx context.Context, accountName, password, sessionID string) (*SafeUser, error) {
	if sessionID == "" {
		return nil, oops.Code(CodeSystemError).Errorf("session id is required")
	}
	if err := ValidateLogin(accountName, password); err != nil {
		return nil, invalidParams(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, systemError("hash password", err)
	}

	user, err := s.users.FindByAccountNameAndPasswordHash(ctx, accountName, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code(CodeInvalidCredentials).Errorf("invalid account name or password")
		}
		return nil, systemError("find by account name and password hash", err)
	}

	safe := Redact(user)
	if err := s.sessions.Bind(ctx, sessionID, safe); err != nil {
		return nil, systemError("bind session", err)
	}
	return safe, nil
}

// Logout unbinds sessionID and reports whether it was bound.
// Logging out an anonymous or unknown session returns false, not an error.
func (s *Service) Logout(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	removed, err := s.sessions.Unbind(ctx, sessionID)
	if err != nil {
		return false, systemError("unbind session", err)
	}
	return removed, nil
}

// Current returns the freshly loaded, redacted account bound to sessionID.
func (s *Service) Current(ctx context.Context, sessionID string) (*SafeUser, error) {
	bound, err := s.boundUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, bound.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// The account was deleted while the session was alive.
			if _, unbindErr := s.sessions.Unbind(ctx, sessionID); unbindErr != nil {
				s.logger.WarnContext(ctx, "best-effort session cleanup failed",
					"operation", "unbind_deleted_user",
					"user_id", bound.ID,
					"error", unbindErr.Error(),
				)
			}
			return nil, notLoggedIn()
		}
		return nil, systemError("find by id", err)
	}
	return Redact(user), nil
}

// Search returns redacted accounts whose name contains fragment.
// The session must belong to an admin.
func (s *Service) Search(ctx context.Context, sessionID, fragment string) ([]*SafeUser, error) {
	if _, err := s.requireAdmin(ctx, sessionID); err != nil {
		return nil, err
	}

	users, err := s.users.SearchByAccountName(ctx, fragment)
	if err != nil {
		return nil, systemError("search by account name", err)
	}

	result := make([]*SafeUser, 0, len(users))
	for _, u := range users {
		result = append(result, Redact(u))
	}
	return result, nil
}

// Delete removes the account with the given ID and reports whether it existed.
// The session must belong to an admin.
func (s *Service) Delete(ctx context.Context, sessionID string, id int64) (bool, error) {
	if _, err := s.requireAdmin(ctx, sessionID); err != nil {
		return false, err
	}
	if id <= 0 {
		return false, oops.Code(CodeInvalidParams).
			With("id", id).
			Errorf("id must be positive")
	}

	deleted, err := s.users.DeleteByID(ctx, id)
	if err != nil {
		return false, systemError("delete by id", err)
	}
	return deleted, nil
}

func (s *Service) boundUser(ctx context.Context, sessionID string) (*SafeUser, error) {
	if sessionID == "" {
		return nil, notLoggedIn()
	}
	user, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notLoggedIn()
		}
		return nil, systemError("get session", err)
	}
	return user, nil
}

func (s *Service) requireAdmin(ctx context.Context, sessionID string) (*SafeUser, error) {
	user, err := s.boundUser(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, oops.Code(CodeForbidden).
			With("user_id", user.ID).
			Errorf("admin role required")
	}
	return user, nil
}

// swallow reports whether err should become a sentinel result, logging it
// when it does.
func (s *Service) swallow(ctx context.Context, operation string, err error) bool {
	if s.opts.FailureMode != FailureModeSentinel || !IsBusinessError(err) {
		return false
	}
	s.logger.WarnContext(ctx, "auth operation failed",
		"operation", operation,
		"code", errutil.Code(err),
		"error", err.Error(),
	)
	return true
}

// IsBusinessError reports whether err is a Register or Login business
// failure rather than a system fault.
func IsBusinessError(err error) bool {
	switch errutil.Code(err) {
	case CodeInvalidParams, CodeAccountConflict, CodeCodeConflict, CodePersistFailed, CodeInvalidCredentials:
		return true
	default:
		return false
	}
}

func invalidParams(err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return oops.Code(CodeInvalidParams).
			With("reason", string(ve.Reason)).
			Wrap(ve)
	}
	return oops.Code(CodeInvalidParams).Wrap(err)
}

func accountConflict(accountName string) error {
	return oops.Code(CodeAccountConflict).
		With("account_name", accountName).
		Errorf("account name is already registered")
}

func codeConflict(code string) error {
	return oops.Code(CodeCodeConflict).
		With("registration_code", strings.TrimSpace(code)).
		Errorf("registration code is already in use")
}

func notLoggedIn() error {
	return oops.Code(CodeNotLoggedIn).Errorf("not logged in")
}

func systemError(operation string, err error) error {
	return oops.Code(CodeSystemError).
		With("operation", operation).
		Wrap(err)
}
