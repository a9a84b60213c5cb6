package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adhyayanx/teachhub/internal/models"
)

type CreateUserParams struct {
	Email        string
	PasswordHash *string
	FullName     *string
	Role         models.Role
	InstituteID  *string
}

// User repository interface
type UserRepo interface {
	// Create user
	// If email is taken already has to return apperrors.ErrEmailInUse
	CreateUser(ctx context.Context, params CreateUserParams) (models.User, error)

	// Get full user record by id or email, including secret fields
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, id uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)

	// Get sanitized user projection. Secret columns are never selected
	// If user not found must return apperrors.ErrUserNotFound
	GetProfile(ctx context.Context, id uuid.UUID) (models.Profile, error)

	// Store password reset token hash and its expiry
	SetPasswordReset(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error

	// Set new password and clear reset fields
	// Only applied while stored reset hash equals resetHash, otherwise apperrors.ErrResetTokenNotFound
	ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string, resetHash string) error
}

// RefreshToken repository interface
type RefreshTokenRepo interface {
	Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error)

	// Not revoked and not expired at 'now' tokens of the user, newest first
	ListActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]models.RefreshToken, error)

	// Same as ListActiveByUser but across all users
	ListActive(ctx context.Context, now time.Time, limit int) ([]models.RefreshToken, error)

	// Mark token revoked
	// If the token is revoked already must return apperrors.ErrRefreshTokenRevoked
	Revoke(ctx context.Context, id uuid.UUID) error
}

type Storage interface {
	User() UserRepo
	Refresh() RefreshTokenRepo

	// Run fn within transaction: commit if fn returns nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
