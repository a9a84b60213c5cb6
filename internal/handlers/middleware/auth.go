package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/handlers/render"
	"github.com/adhyayanx/teachhub/internal/handlers/userctx"
	"github.com/adhyayanx/teachhub/internal/models"
)

type authenticator interface {
	Authenticate(ctx context.Context, access string) (models.TokenClaims, error)
}

// AuthMiddleware admits requests with valid bearer access token and puts its claims to context
func AuthMiddleware(a authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access, ok := bearerToken(r)
			if !ok {
				render.Error(w, render.UnauthenticatedType, http.StatusUnauthorized)
				return
			}

			claims, err := a.Authenticate(r.Context(), access)
			switch {
			case errors.Is(err, apperrors.ErrMissingToken):
				render.Error(w, render.UnauthenticatedType, http.StatusUnauthorized)
				return
			case err != nil:
				render.Error(w, render.InvalidTokenType, http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
