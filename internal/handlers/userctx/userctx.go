package userctx

import (
	"context"

	"github.com/adhyayanx/teachhub/internal/models"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// Create a new context with claims of authenticated user
func New(ctx context.Context, claims models.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Extract claims from the context
func FromContext(ctx context.Context) (models.TokenClaims, bool) {
	c, ok := ctx.Value(claimsKey).(models.TokenClaims)
	return c, ok
}
