package models

import (
	"time"

	"github.com/google/uuid"
)

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued on login or rotation
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

// Claims carried by both access and refresh tokens
type TokenClaims struct {
	Subject uuid.UUID
	Role    Role
}

// Session is the result of a successful login or refresh
type Session struct {
	Tokens TokenPair
	User   Profile
}
