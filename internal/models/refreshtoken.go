package models

import (
	"time"

	"github.com/google/uuid"
)

// Stored refresh token record. Only the hash of the token is kept
type RefreshToken struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	TokenHash    string
	CreatedAt    time.Time
	ExpiresAt    time.Time
	Revoked      bool
	ReplacedByID *uuid.UUID // kept for audit, always nil for now
}
