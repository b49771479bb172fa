// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package auth

import (
	"context"
	"time"
)

// Gender of an account holder. The zero value means unset.
type Gender int

// Gender values.
const (
	GenderUnset Gender = iota
	GenderMale
	GenderFemale
)

// Status is the account status.
type Status int

// Status values.
const (
	StatusActive Status = iota
	StatusDisabled
)

// Role is the account role.
type Role int

// Role values.
const (
	RoleNormal Role = iota
	RoleAdmin
)

// User represents a persisted account.
//
// ID and CreatedAt are assigned by the UserRepository on Insert and never
// change afterwards.
type User struct {
	ID               int64
	AccountName      string
	PasswordHash     string
	DisplayName      string
	AvatarURL        string
	Gender           Gender
	Phone            string
	Email            string
	CreatedAt        time.Time
	Status           Status
	Role             Role
	RegistrationCode *string
}

// SafeUser is a User without its password hash.
type SafeUser struct {
	ID               int64     `json:"id"`
	AccountName      string    `json:"userAccount"`
	DisplayName      string    `json:"username"`
	AvatarURL        string    `json:"avatarUrl"`
	Gender           Gender    `json:"gender"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	CreatedAt        time.Time `json:"createTime"`
	Status           Status    `json:"userStatus"`
	Role             Role      `json:"userRole"`
	RegistrationCode *string   `json:"planetCode,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *SafeUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Redact copies every field of u except the password hash.
// A nil user yields nil.
func Redact(u *User) *SafeUser {
	if u == nil {
		return nil
	}
	var code *string
	if u.RegistrationCode != nil {
		c := *u.RegistrationCode
		code = &c
	}
	return &SafeUser{
		ID:               u.ID,
		AccountName:      u.AccountName,
		DisplayName:      u.DisplayName,
		AvatarURL:        u.AvatarURL,
		Gender:           u.Gender,
		Phone:            u.Phone,
		Email:            u.Email,
		CreatedAt:        u.CreatedAt,
		Status:           u.Status,
		Role:             u.Role,
		RegistrationCode: code,
	}
}

// UserRepository manages account persistence.
type UserRepository interface {
	// CountByAccountName returns how many accounts use the name.
	CountByAccountName(ctx context.Context, accountName string) (int64, error)

	// CountByRegistrationCode returns how many accounts use the code.
	CountByRegistrationCode(ctx context.Context, code string) (int64, error)

	// FindByAccountNameAndPasswordHash returns the account matching both values
	// exactly. Returns ErrNotFound if there is none.
	FindByAccountNameAndPasswordHash(ctx context.Context, accountName, passwordHash string) (*User, error)

	// Insert stores a new account and sets its ID and CreatedAt.
	// A unique constraint violation wraps ErrDuplicateAccountName or
	// ErrDuplicateRegistrationCode.
	Insert(ctx context.Context, user *User) error

	// FindByID retrieves an account by ID. Returns ErrNotFound if missing.
	FindByID(ctx context.Context, id int64) (*User, error)

	// SearchByAccountName returns accounts whose name contains fragment.
	// An empty fragment matches every account.
	SearchByAccountName(ctx context.Context, fragment string) ([]*User, error)

	// DeleteByID removes an account and reports whether it existed.
	DeleteByID(ctx context.Context, id int64) (bool, error)
}
