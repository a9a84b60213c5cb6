package apperrors

import (
	"errors"
)

var (
	ErrEmailInUse         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrMissingToken        = errors.New("missing refresh token")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token is revoked")
	ErrResetTokenNotFound  = errors.New("password reset token not found")
)
