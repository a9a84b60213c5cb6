package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/adhyayanx/teachhub/internal/handlers/middleware"
	"github.com/adhyayanx/teachhub/internal/logger"
	"github.com/adhyayanx/teachhub/internal/metrics"
	"github.com/adhyayanx/teachhub/internal/models"
	"github.com/adhyayanx/teachhub/internal/service/auth"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

type RouterConfig struct {
	Cookies Cookies

	// Issue session right on signup instead of waiting for login
	SignupIssuesSession bool

	// Web frontend served behind session gate
	// Placeholder pages are served if nil
	Web http.Handler
}

func NewRouter(
	cfg RouterConfig,
	authService authService,
	m *metrics.Metrics,
	logger logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService)
	cookies := cfg.Cookies

	api := http.NewServeMux()

	api.Handle("POST /api/auth/signup", handleSignup(authService, cookies, cfg.SignupIssuesSession, logger))
	api.Handle("POST /api/auth/login", handleLogin(authService, cookies, logger))
	api.Handle("POST /api/auth/refresh", handleRefresh(authService, cookies, logger))
	api.Handle("POST /api/auth/logout", handleLogout(authService, cookies, logger))
	api.Handle("POST /api/auth/forget-password", handleForgotPassword(authService, logger))
	api.Handle("POST /api/auth/reset-password", handleResetPassword(authService, logger))

	api.Handle("GET /api/users/me", withAuth(handleUserMe(authService, logger)))

	web := cfg.Web
	if web == nil {
		web = placeholderWeb()
	}

	root := http.NewServeMux()
	root.Handle("/api/", api)
	root.Handle("GET /metrics", m.Handler())
	root.Handle("/", middleware.SessionGate(middleware.GateConfig{CookieName: RefreshCookieName})(web))

	handler := chain(root,
		middleware.MetricsMiddleware(m),
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Create user, has to return apperrors.ErrEmailInUse if email is taken
	Signup(ctx context.Context, params auth.SignupParams) (models.Profile, error)
	SignupWithSession(ctx context.Context, params auth.SignupParams) (models.Session, error)

	// Has to return apperrors.ErrInvalidCredentials for unknown email or wrong password
	Login(ctx context.Context, email string, password string) (models.Session, error)

	// Rotate refresh token
	// apperrors.ErrMissingToken for empty token, apperrors.ErrInvalidToken for everything else
	Refresh(ctx context.Context, refresh string) (models.Session, error)

	Logout(ctx context.Context, refresh string) error

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email string, token string, newPassword string) error

	Authenticate(ctx context.Context, access string) (models.TokenClaims, error)
	Profile(ctx context.Context, userID uuid.UUID) (models.Profile, error)
}
