// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 UserCenter Contributors

// Package postgres implements the auth repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/usercenter/usercenter/internal/auth"
)

// Unique constraint names from the users migration.
const (
	accountNameConstraint      = "users_account_name_key"
	registrationCodeConstraint = "users_registration_code_key"
)

// Pool is the subset of pgxpool.Pool the repository uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	pool Pool
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, account_name, password_hash, display_name, avatar_url,
		       gender, phone, email, status, role, registration_code, created_at`

// CountByAccountName returns how many accounts use the name.
func (r *UserRepository) CountByAccountName(ctx context.Context, accountName string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE account_name = $1`,
		accountName).Scan(&n)
	if err != nil {
		return 0, oops.With("operation", "count users by account name").
			With("account_name", accountName).
			Wrap(err)
	}
	return n, nil
}

// CountByRegistrationCode returns how many accounts use the code.
func (r *UserRepository) CountByRegistrationCode(ctx context.Context, code string) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE registration_code = $1`,
		code).Scan(&n)
	if err != nil {
		return 0, oops.With("operation", "count users by registration code").
			With("registration_code", code).
			Wrap(err)
	}
	return n, nil
}

// FindByAccountNameAndPasswordHash returns the account matching both values.
func (r *UserRepository) FindByAccountNameAndPasswordHash(ctx context.Context, accountName, passwordHash string) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE account_name = $1 AND password_hash = $2
	`, accountName, passwordHash)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.With("account_name", accountName).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get user by credentials").
			With("account_name", accountName).
			Wrap(err)
	}
	return user, nil
}

// Insert stores a new account and sets its ID and CreatedAt.
func (r *UserRepository) Insert(ctx context.Context, user *auth.User) error {
	var (
		id        int64
		createdAt time.Time
	)
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (
			account_name, password_hash, display_name, avatar_url,
			gender, phone, email, status, role, registration_code
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`,
		user.AccountName,
		user.PasswordHash,
		user.DisplayName,
		user.AvatarURL,
		int16(user.Gender),
		user.Phone,
		user.Email,
		int16(user.Status),
		int16(user.Role),
		user.RegistrationCode,
	).Scan(&id, &createdAt)
	if err != nil {
		if dup := duplicateError(err); dup != nil {
			return dup
		}
		return oops.With("operation", "insert user").
			With("account_name", user.AccountName).
			Wrap(err)
	}

	user.ID = id
	user.CreatedAt = createdAt
	return nil
}

// FindByID retrieves an account by ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*auth.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.With("id", id).Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.With("operation", "get user by id").
			With("id", id).
			Wrap(err)
	}
	return user, nil
}

// likeEscaper escapes LIKE wildcards so fragments match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchByAccountName returns accounts whose name contains fragment, ordered by ID.
func (r *UserRepository) SearchByAccountName(ctx context.Context, fragment string) ([]*auth.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE account_name LIKE $1 ESCAPE '\'
		ORDER BY id
	`, "%"+likeEscaper.Replace(fragment)+"%")
	if err != nil {
		return nil, oops.With("operation", "search users").
			With("fragment", fragment).
			Wrap(err)
	}
	defer rows.Close()

	users := make([]*auth.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, oops.With("operation", "scan user row").Wrap(err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.With("operation", "iterate users").Wrap(err)
	}
	return users, nil
}

// DeleteByID removes an account and reports whether it existed.
func (r *UserRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, oops.With("operation", "delete user").
			With("id", id).
			Wrap(err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var (
		user                 auth.User
		gender, status, role int16
		code                 *string
	)
	err := row.Scan(
		&user.ID,
		&user.AccountName,
		&user.PasswordHash,
		&user.DisplayName,
		&user.AvatarURL,
		&gender,
		&user.Phone,
		&user.Email,
		&status,
		&role,
		&code,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with operation context
	}
	user.Gender = auth.Gender(gender)
	user.Status = auth.Status(status)
	user.Role = auth.Role(role)
	user.RegistrationCode = code
	return &user, nil
}

// duplicateError maps unique violations on the users table to the auth
// sentinels. Returns nil for any other error.
func duplicateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case accountNameConstraint:
		return oops.With("constraint", pgErr.ConstraintName).Wrap(auth.ErrDuplicateAccountName)
	case registrationCodeConstraint:
		return oops.With("constraint", pgErr.ConstraintName).Wrap(auth.ErrDuplicateRegistrationCode)
	default:
		return nil
	}
}
