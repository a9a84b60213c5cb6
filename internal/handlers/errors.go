package handlers

import (
	"errors"
	"net/http"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/handlers/render"
	"github.com/adhyayanx/teachhub/internal/logger"
)

// Map service error to status and code
// Unexpected errors are logged and never leak to the client
func renderServiceError(w http.ResponseWriter, err error, logger logger.Logger) {
	switch {
	case errors.Is(err, apperrors.ErrEmailInUse):
		render.Error(w, render.EmailInUseType, http.StatusConflict)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		render.Error(w, render.InvalidCredentialsType, http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrMissingToken):
		render.Error(w, render.MissingTokenType, http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrInvalidToken):
		render.Error(w, render.InvalidTokenType, http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrTokenExpired):
		render.Error(w, render.TokenExpiredType, http.StatusUnauthorized)
	case errors.Is(err, apperrors.ErrUserNotFound):
		render.Error(w, render.NotFoundType, http.StatusNotFound)
	default:
		logger.Error("Unexpected error", "error", err)
		render.Error(w, render.InternalServerErrorType, http.StatusInternalServerError)
	}
}
