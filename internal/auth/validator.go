// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Credential constraints. Lengths are counted in characters, not bytes.
const (
	MinAccountNameLength      = 4
	MinPasswordLength         = 8
	MaxRegistrationCodeLength = 5
)

// accountNameRegex matches account names made only of CJK unified
// ideographs (U+4E00..U+9FA5), ASCII letters and ASCII digits.
var accountNameRegex = regexp.MustCompile(`^[\x{4E00}-\x{9FA5}A-Za-z0-9]+$`)

// ValidationReason identifies which credential rule failed.
type ValidationReason string

// Validation reasons, in the order the rules are checked.
const (
	ReasonBlankField        ValidationReason = "blank_field"
	ReasonAccountTooShort   ValidationReason = "account_too_short"
	ReasonPasswordTooShort  ValidationReason = "password_too_short"
	ReasonCodeTooLong       ValidationReason = "code_too_long"
	ReasonInvalidCharacters ValidationReason = "invalid_characters"
	ReasonPasswordMismatch  ValidationReason = "password_mismatch"
)

// ValidationError describes the first credential rule an input broke.
type ValidationError struct {
	Reason  ValidationReason
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(reason ValidationReason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

// isBlank reports whether s is empty or whitespace only.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func anyBlank(values ...string) bool {
	for _, v := range values {
		if isBlank(v) {
			return true
		}
	}
	return false
}

func length(s string) int {
	return utf8.RuneCountInString(s)
}

// ValidateRegistration checks registration input and returns the first
// failure, or nil.
//
// When requireCode is false a blank registrationCode means "no code"; a
// non-blank one is still length checked.
func ValidateRegistration(accountName, password, confirmPassword, registrationCode string, requireCode bool) error {
	required := []string{accountName, password, confirmPassword}
	if requireCode {
		required = append(required, registrationCode)
	}
	if anyBlank(required...) {
		return invalid(ReasonBlankField, "required field is empty")
	}
	if length(accountName) < MinAccountNameLength {
		return invalid(ReasonAccountTooShort, "account name must be at least 4 characters")
	}
	if length(password) < MinPasswordLength || length(confirmPassword) < MinPasswordLength {
		return invalid(ReasonPasswordTooShort, "password must be at least 8 characters")
	}
	if !isBlank(registrationCode) && length(registrationCode) > MaxRegistrationCodeLength {
		return invalid(ReasonCodeTooLong, "registration code must be at most 5 characters")
	}
	if !accountNameRegex.MatchString(accountName) {
		return invalid(ReasonInvalidCharacters, "account name contains invalid characters")
	}
	if password != confirmPassword {
		return invalid(ReasonPasswordMismatch, "passwords do not match")
	}
	return nil
}

// ValidateLogin checks login input and returns the first failure, or nil.
func ValidateLogin(accountName, password string) error {
	if anyBlank(accountName, password) {
		return invalid(ReasonBlankField, "required field is empty")
	}
	if length(accountName) < MinAccountNameLength {
		return invalid(ReasonAccountTooShort, "account name must be at least 4 characters")
	}
	if length(password) < MinPasswordLength {
		return invalid(ReasonPasswordTooShort, "password must be at least 8 characters")
	}
	if !accountNameRegex.MatchString(accountName) {
		return invalid(ReasonInvalidCharacters, "account name contains invalid characters")
	}
	return nil
}
