package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/models"
	"github.com/adhyayanx/teachhub/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const userColumns = `id, created_at, email, full_name, role, institute_id,
	password_hash, password_reset_token_hash, password_reset_expires_at`

const createUser = `-- name: CreateUser
INSERT INTO users (id, email, password_hash, full_name, role, institute_id)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (email) DO NOTHING
RETURNING ` + userColumns

func (r *UserRepo) CreateUser(ctx context.Context, params repository.CreateUserParams) (models.User, error) {
	role := params.Role
	if role == "" {
		role = models.RoleStudent
	}

	rows, _ := r.DB.Query(ctx, createUser,
		uuid.New(), params.Email, params.PasswordHash, params.FullName, role, params.InstituteID,
	)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		// Conflicting email inserts nothing and keeps surrounding transaction usable
		if errors.Is(err, pgx.ErrNoRows) {
			return user, apperrors.ErrEmailInUse
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getUserByID = `-- name: GetUserByID
SELECT ` + userColumns + `
FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	return collectUser(rows)
}

const getUserByEmail = `-- name: GetUserByEmail
SELECT ` + userColumns + `
FROM users
WHERE email = $1
`

func (r *UserRepo) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByEmail, email)
	return collectUser(rows)
}

const getProfile = `-- name: GetProfile
SELECT id, email, full_name, role, institute_id
FROM users
WHERE id = $1
`

func (r *UserRepo) GetProfile(ctx context.Context, id uuid.UUID) (models.Profile, error) {
	rows, _ := r.DB.Query(ctx, getProfile, id)
	profile, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Profile, error) {
		var p models.Profile
		err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Role, &p.InstituteID)
		return p, err
	})

	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, pgx.ErrNoRows):
		return profile, apperrors.ErrUserNotFound
	default:
		return profile, fmt.Errorf("db error: %w", err)
	}
}

const setPasswordReset = `-- name: SetPasswordReset
UPDATE users
SET password_reset_token_hash = $2, password_reset_expires_at = $3
WHERE id = $1
`

func (r *UserRepo) SetPasswordReset(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	tag, err := r.DB.Exec(ctx, setPasswordReset, userID, tokenHash, expiresAt)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrUserNotFound
	default:
		return nil
	}
}

const resetPassword = `-- name: ResetPassword
UPDATE users
SET password_hash = $2, password_reset_token_hash = NULL, password_reset_expires_at = NULL
WHERE id = $1 AND password_reset_token_hash = $3
`

// Compare-and-set on the reset hash: two concurrent resets with one token can't both pass
func (r *UserRepo) ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string, resetHash string) error {
	tag, err := r.DB.Exec(ctx, resetPassword, userID, passwordHash, resetHash)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return apperrors.ErrResetTokenNotFound
	default:
		return nil
	}
}

func collectUser(rows pgx.Rows) (models.User, error) {
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.CreatedAt, &u.Email, &u.FullName, &u.Role, &u.InstituteID,
		&u.PasswordHash, &u.PasswordResetTokenHash, &u.PasswordResetExpiresAt,
	)
	return u, err
}
