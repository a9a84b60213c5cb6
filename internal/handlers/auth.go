package handlers

import (
	"errors"
	"net/http"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/handlers/render"
	"github.com/adhyayanx/teachhub/internal/logger"
	"github.com/adhyayanx/teachhub/internal/models"
	"github.com/adhyayanx/teachhub/internal/service/auth"
)

type userResponse struct {
	User models.Profile `json:"user"`
}

type sessionResponse struct {
	AccessToken string         `json:"accessToken"`
	User        models.Profile `json:"user"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func handleSignup(s authService, cookies Cookies, issueSession bool, logger logger.Logger) http.Handler {
	type request struct {
		Email       string      `json:"email" validate:"required,email"`
		Password    string      `json:"password" validate:"required"`
		FullName    *string     `json:"fullName"`
		Role        models.Role `json:"role" validate:"omitempty,role"`
		InstituteID *string     `json:"instituteId"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		params := auth.SignupParams{
			Email:       data.Email,
			Password:    data.Password,
			FullName:    data.FullName,
			Role:        data.Role,
			InstituteID: data.InstituteID,
		}

		if !issueSession {
			profile, err := s.Signup(r.Context(), params)
			if err != nil {
				renderServiceError(w, err, logger)
				return
			}
			render.JSONWithStatus(w, userResponse{User: profile}, http.StatusCreated)
			return
		}

		session, err := s.SignupWithSession(r.Context(), params)
		if err != nil {
			renderServiceError(w, err, logger)
			return
		}

		cookies.Set(w, session.Tokens.Refresh.Value)
		render.JSONWithStatus(w, sessionResponse{AccessToken: session.Tokens.Access.Value, User: session.User}, http.StatusCreated)
	})
}

func handleLogin(s authService, cookies Cookies, logger logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		session, err := s.Login(r.Context(), data.Email, data.Password)
		if err != nil {
			renderServiceError(w, err, logger)
			return
		}

		cookies.Set(w, session.Tokens.Refresh.Value)
		render.JSON(w, sessionResponse{AccessToken: session.Tokens.Access.Value, User: session.User})
	})
}

func handleRefresh(s authService, cookies Cookies, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.Refresh(r.Context(), cookies.Refresh(r))
		if err != nil {
			renderServiceError(w, err, logger)
			return
		}

		cookies.Set(w, session.Tokens.Refresh.Value)
		render.JSON(w, sessionResponse{AccessToken: session.Tokens.Access.Value, User: session.User})
	})
}

// Logout always succeeds and clears cookies: client holds no usable session afterwards anyway
func handleLogout(s authService, cookies Cookies, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.Logout(r.Context(), cookies.Refresh(r)); err != nil {
			logger.Error("Logout failed, cookies cleared anyway", "error", err)
		}

		cookies.Clear(w)
		render.JSON(w, okResponse{OK: true})
	})
}

// Forgot password always answers ok, so existence of email can't be probed
func handleForgotPassword(s authService, logger logger.Logger) http.Handler {
	type request struct {
		Email string `json:"email" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.Decode[request](r)
		if err == nil {
			err = s.ForgotPassword(r.Context(), data.Email)
		}
		if err != nil {
			logger.Warn("Forgot password request not completed", "error", err)
		}

		render.JSON(w, okResponse{OK: true})
	})
}

func handleResetPassword(s authService, logger logger.Logger) http.Handler {
	type request struct {
		Email       string `json:"email" validate:"required"`
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		err = s.ResetPassword(r.Context(), data.Email, data.Token, data.NewPassword)
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired):
			render.Error(w, render.TokenExpiredType, http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrInvalidToken):
			render.Error(w, render.InvalidTokenType, http.StatusBadRequest)
		case err != nil:
			renderServiceError(w, err, logger)
		default:
			render.JSON(w, okResponse{OK: true})
		}
	})
}
