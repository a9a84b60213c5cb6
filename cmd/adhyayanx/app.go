package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adhyayanx/teachhub/internal/db"
	"github.com/adhyayanx/teachhub/internal/handlers"
	"github.com/adhyayanx/teachhub/internal/logger"
	"github.com/adhyayanx/teachhub/internal/metrics"
	"github.com/adhyayanx/teachhub/internal/repository/postgres"
	"github.com/adhyayanx/teachhub/internal/service/auth"
	"github.com/adhyayanx/teachhub/internal/service/auth/hasher"
	"github.com/adhyayanx/teachhub/internal/service/auth/tokenmanager"
	"github.com/adhyayanx/teachhub/internal/service/mailer"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler
	Logger     logger.Logger

	pool *pgxpool.Pool
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	h, err := hasher.New(c.PasswordHasher, c.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error while creating hasher: %w", err)
	}

	tokens, err := tokenmanager.New(tokenmanager.Config{
		AccessSecret:  c.AccessSecret,
		RefreshSecret: c.RefreshSecret,
		AccessTTL:     c.AccessTTL,
		RefreshTTL:    c.RefreshTTL(),
	})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager: %w", err)
	}

	m, err := mailer.New(mailer.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUser,
		Password: c.SMTPPass,
		From:     c.SMTPFrom,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("error while creating mailer: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	storage := postgres.NewStorage(pool)
	appMetrics := metrics.New()

	authService, err := auth.New(auth.Config{
		Hasher:            h,
		Tokens:            tokens,
		Mailer:            m,
		Logger:            l,
		Metrics:           appMetrics,
		RefreshCandidates: c.RefreshCandidates,
		LogoutCandidates:  c.LogoutCandidates,
		ResetTokenTTL:     c.ResetTokenTTL,
		ResetURL:          c.ResetURL(),
	}, storage)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Cookies: handlers.Cookies{
			Secure: c.Environment == logger.EnvProduction,
			MaxAge: authService.RefreshTTL(),
		},
		SignupIssuesSession: c.SignupIssuesSession,
		Web:                 handlers.WebHandler(c.WebDir),
	}, authService, appMetrics, l)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    router,
		Logger:     l,
		pool:       pool,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.pool.Close()

	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.Logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.Logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.Logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
