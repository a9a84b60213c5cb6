package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/logger"
	"github.com/adhyayanx/teachhub/internal/metrics"
	"github.com/adhyayanx/teachhub/internal/models"
	"github.com/adhyayanx/teachhub/internal/repository"
	"github.com/adhyayanx/teachhub/internal/service/auth/hasher"
	"github.com/adhyayanx/teachhub/internal/service/mailer"
)

const (
	DefaultRefreshCandidates = 5
	DefaultLogoutCandidates  = 20
	DefaultResetTokenTTL     = time.Hour
)

// Token codec used by the service
type TokenManager interface {
	SignAccess(subject uuid.UUID, role models.Role) (models.IssuedToken, error)
	VerifyAccess(token string) (models.TokenClaims, error)
	SignRefresh(subject uuid.UUID, role models.Role) (models.IssuedToken, error)
	VerifyRefresh(token string) (models.TokenClaims, error)
	RefreshTTL() time.Duration
}

// Receives flow outcomes, satisfied by *metrics.Metrics
type Recorder interface {
	FlowDone(flow string, outcome string)
	TokensRevoked(flow string, n int)
}

type Config struct {
	// Required collaborators
	Hasher hasher.Hasher
	Tokens TokenManager
	Mailer mailer.Mailer

	// Optional, no-op if not set
	Logger  logger.Logger
	Metrics Recorder

	// How many recent active refresh records are tested against presented token
	RefreshCandidates int
	LogoutCandidates  int

	// Lifetime of password reset token
	ResetTokenTTL time.Duration

	// Page the reset link points to, token and email are added as query params
	ResetURL string

	// Clock, time.Now if not set
	Now func() time.Time
}

type SignupParams struct {
	Email       string
	Password    string
	FullName    *string
	Role        models.Role
	InstituteID *string
}

type Service struct {
	storage repository.Storage
	hasher  hasher.Hasher
	tokens  TokenManager
	mailer  mailer.Mailer
	logger  logger.Logger
	metrics Recorder

	refreshCandidates int
	logoutCandidates  int
	resetTTL          time.Duration
	resetURL          string
	now               func() time.Time

	// Verified against when user is unknown, so login always pays for one verify
	dummyHash string
}

func New(cfg Config, storage repository.Storage) (*Service, error) {
	if storage == nil || cfg.Hasher == nil || cfg.Tokens == nil || cfg.Mailer == nil {
		return nil, errors.New("storage, hasher, tokens and mailer must not be nil")
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.NewNoOpLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopRecorder{}
	}
	if cfg.RefreshCandidates <= 0 {
		cfg.RefreshCandidates = DefaultRefreshCandidates
	}
	if cfg.LogoutCandidates <= 0 {
		cfg.LogoutCandidates = DefaultLogoutCandidates
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = DefaultResetTokenTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	dummyHash, err := cfg.Hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("hasher is not usable: %w", err)
	}

	return &Service{
		storage:           storage,
		hasher:            cfg.Hasher,
		tokens:            cfg.Tokens,
		mailer:            cfg.Mailer,
		logger:            cfg.Logger,
		metrics:           cfg.Metrics,
		refreshCandidates: cfg.RefreshCandidates,
		logoutCandidates:  cfg.LogoutCandidates,
		resetTTL:          cfg.ResetTokenTTL,
		resetURL:          cfg.ResetURL,
		now:               cfg.Now,
		dummyHash:         dummyHash,
	}, nil
}

// Refresh token lifetime, used as cookie max-age
func (s *Service) RefreshTTL() time.Duration {
	return s.tokens.RefreshTTL()
}

// Signup creates user and returns sanitized profile. No session is issued
func (s *Service) Signup(ctx context.Context, params SignupParams) (profile models.Profile, err error) {
	defer s.observe(metrics.FlowSignup, &err)

	user, err := s.createUser(ctx, s.storage, params)
	if err != nil {
		return profile, err
	}

	return user.Profile(), nil
}

// SignupWithSession creates user and issues session in one transaction
// So there is never an account that was created but could not get a session
func (s *Service) SignupWithSession(ctx context.Context, params SignupParams) (session models.Session, err error) {
	defer s.observe(metrics.FlowSignup, &err)

	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		user, err := s.createUser(ctx, storage, params)
		if err != nil {
			return err
		}

		session, err = s.issueSession(ctx, storage, user)
		return err
	})

	return session, err
}

// Authenticate validates access token
func (s *Service) Authenticate(_ context.Context, access string) (models.TokenClaims, error) {
	if access == "" {
		return models.TokenClaims{}, apperrors.ErrMissingToken
	}
	return s.tokens.VerifyAccess(access)
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (models.Profile, error) {
	return s.storage.User().GetProfile(ctx, userID)
}

func (s *Service) createUser(ctx context.Context, storage repository.Storage, params SignupParams) (models.User, error) {
	if params.Password == "" {
		return models.User{}, errors.New("password must not be empty")
	}
	if params.Role == "" {
		params.Role = models.RoleStudent
	}
	if !params.Role.Valid() {
		return models.User{}, fmt.Errorf("unknown role %q", params.Role)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("can't use this as password, error=%w", err)
	}

	return storage.User().CreateUser(ctx, repository.CreateUserParams{
		Email:        NormalizeEmail(params.Email),
		PasswordHash: &hash,
		FullName:     params.FullName,
		Role:         params.Role,
		InstituteID:  params.InstituteID,
	})
}

// Issue access and refresh tokens and persist hashed refresh record
func (s *Service) issueSession(ctx context.Context, storage repository.Storage, user models.User) (models.Session, error) {
	access, err := s.tokens.SignAccess(user.ID, user.Role)
	if err != nil {
		return models.Session{}, err
	}
	refresh, err := s.tokens.SignRefresh(user.ID, user.Role)
	if err != nil {
		return models.Session{}, err
	}

	hash, err := s.hasher.Hash(refresh.Value)
	if err != nil {
		return models.Session{}, fmt.Errorf("error while hashing refresh token. Err: %w", err)
	}

	_, err = storage.Refresh().Create(ctx, models.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: hash,
		CreatedAt: s.now(),
		ExpiresAt: refresh.ExpiresAt,
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("error while saving refresh token. Err: %w", err)
	}

	return models.Session{
		Tokens: models.TokenPair{Access: access, Refresh: refresh},
		User:   user.Profile(),
	}, nil
}

// Errors that are expected outcome of a flow, not a failure
var rejections = []error{
	apperrors.ErrEmailInUse,
	apperrors.ErrInvalidCredentials,
	apperrors.ErrMissingToken,
	apperrors.ErrInvalidToken,
	apperrors.ErrTokenExpired,
}

func (s *Service) observe(flow string, err *error) {
	outcome := metrics.OutcomeSuccess
	if *err != nil {
		outcome = metrics.OutcomeError
		for _, target := range rejections {
			if errors.Is(*err, target) {
				outcome = metrics.OutcomeRejected
				break
			}
		}
	}
	s.metrics.FlowDone(flow, outcome)
}

// NormalizeEmail trims and lower-cases address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type noopRecorder struct{}

func (noopRecorder) FlowDone(string, string)   {}
func (noopRecorder) TokensRevoked(string, int) {}
