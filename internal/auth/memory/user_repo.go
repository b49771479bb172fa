// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/oops"

	"github.com/usercenter/usercenter/internal/auth"
)

// UserRepository is an in-memory auth.UserRepository.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*auth.User
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates an empty repository. IDs start at 1.
func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[int64]*auth.User)}
}

func cloneUser(u *auth.User) *auth.User {
	c := *u
	if u.RegistrationCode != nil {
		code := *u.RegistrationCode
		c.RegistrationCode = &code
	}
	return &c
}

// CountByAccountName implements auth.UserRepository.
func (r *UserRepository) CountByAccountName(_ context.Context, accountName string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, u := range r.users {
		if u.AccountName == accountName {
			n++
		}
	}
	return n, nil
}

// CountByRegistrationCode implements auth.UserRepository.
func (r *UserRepository) CountByRegistrationCode(_ context.Context, code string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, u := range r.users {
		if u.RegistrationCode != nil && *u.RegistrationCode == code {
			n++
		}
	}
	return n, nil
}

// FindByAccountNameAndPasswordHash implements auth.UserRepository.
func (r *UserRepository) FindByAccountNameAndPasswordHash(_ context.Context, accountName, passwordHash string) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.AccountName == accountName && u.PasswordHash == passwordHash {
			return cloneUser(u), nil
		}
	}
	return nil, oops.With("account_name", accountName).Wrap(auth.ErrNotFound)
}

// Insert implements auth.UserRepository. Uniqueness is checked under the
// write lock, so concurrent inserts of the same name cannot both succeed.
func (r *UserRepository) Insert(_ context.Context, user *auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.AccountName == user.AccountName {
			return oops.With("account_name", user.AccountName).Wrap(auth.ErrDuplicateAccountName)
		}
		if user.RegistrationCode != nil && u.RegistrationCode != nil && *u.RegistrationCode == *user.RegistrationCode {
			return oops.With("registration_code", *user.RegistrationCode).Wrap(auth.ErrDuplicateRegistrationCode)
		}
	}

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = cloneUser(user)
	return nil
}

// FindByID implements auth.UserRepository.
func (r *UserRepository) FindByID(_ context.Context, id int64) (*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, oops.With("id", id).Wrap(auth.ErrNotFound)
	}
	return cloneUser(u), nil
}

// SearchByAccountName implements auth.UserRepository. Results are ordered by ID.
func (r *UserRepository) SearchByAccountName(_ context.Context, fragment string) ([]*auth.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*auth.User, 0)
	for _, u := range r.users {
		if strings.Contains(u.AccountName, fragment) {
			result = append(result, cloneUser(u))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// DeleteByID implements auth.UserRepository. IDs are never reused.
func (r *UserRepository) DeleteByID(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}
