package handlers

import (
	"net/http"

	"github.com/adhyayanx/teachhub/internal/handlers/render"
	"github.com/adhyayanx/teachhub/internal/handlers/userctx"
	"github.com/adhyayanx/teachhub/internal/logger"
)

// Has to be wrapped with auth middleware
func handleUserMe(s authService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, render.UnauthenticatedType, http.StatusUnauthorized)
			return
		}

		profile, err := s.Profile(r.Context(), claims.Subject)
		if err != nil {
			renderServiceError(w, err, logger)
			return
		}

		render.JSON(w, userResponse{User: profile})
	})
}
