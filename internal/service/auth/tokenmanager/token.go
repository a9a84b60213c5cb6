package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/models"
)

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultSigningMethod   = "HS256"
	defaultRefreshTokenTTL = 30 * 24 * time.Hour
)

type Claims struct {
	jwt.RegisteredClaims
	Role models.Role `json:"role"`
}

// Token manager with sensible default
type Config struct {
	// Secrets to sign access and refresh tokens
	// Both required and must differ
	AccessSecret  string
	RefreshSecret string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access and refresh token lifetimes
	// If not set than default is used
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Clock, time.Now if not set
	Now func() time.Time
}

type TokenManager struct {
	accessKey  []byte
	refreshKey []byte

	// JWT MAC (Message Authentication Code) algorithm
	alg jwt.SigningMethod

	// Access and refresh token lifetimes
	accessTTL  time.Duration
	refreshTTL time.Duration

	now func() time.Time
}

func New(cfg Config) (*TokenManager, error) {
	switch {
	case cfg.AccessSecret == "" || cfg.RefreshSecret == "":
		return nil, errors.New("access and refresh secrets must not be empty")
	case cfg.AccessSecret == cfg.RefreshSecret:
		return nil, errors.New("access and refresh secrets must differ")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}
	alg, ok := jwt.GetSigningMethod(cfg.Alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing method %q, only HMAC is allowed", cfg.Alg)
	}

	setDefaultDuration := func(field *time.Duration, def time.Duration) {
		if *field == 0 {
			*field = def
		}
	}
	setDefaultDuration(&cfg.AccessTTL, defaultAccessTokenTTL)
	setDefaultDuration(&cfg.RefreshTTL, defaultRefreshTokenTTL)

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &TokenManager{
		accessKey:  []byte(cfg.AccessSecret),
		refreshKey: []byte(cfg.RefreshSecret),
		alg:        alg,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}, nil
}

func (m *TokenManager) SignAccess(subject uuid.UUID, role models.Role) (models.IssuedToken, error) {
	return m.sign(m.accessKey, m.accessTTL, subject, role)
}

func (m *TokenManager) VerifyAccess(token string) (models.TokenClaims, error) {
	return m.verify(m.accessKey, token)
}

func (m *TokenManager) SignRefresh(subject uuid.UUID, role models.Role) (models.IssuedToken, error) {
	return m.sign(m.refreshKey, m.refreshTTL, subject, role)
}

func (m *TokenManager) VerifyRefresh(token string) (models.TokenClaims, error) {
	return m.verify(m.refreshKey, token)
}

func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// Used both as cookie max-age and to compute stored refresh record expiry
func (m *TokenManager) RefreshLifetimeSeconds() int {
	return int(m.refreshTTL / time.Second)
}

func (m *TokenManager) sign(key []byte, ttl time.Duration, subject uuid.UUID, role models.Role) (models.IssuedToken, error) {
	now := m.now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(
		m.alg,
		Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject.String(),
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			Role: role,
		},
	)
	signed, err := token.SignedString(key)
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse and validate token
// Every failure (format, signature, expiry, claims) is reported as ErrInvalidToken
func (m *TokenManager) verify(key []byte, token string) (models.TokenClaims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			return key, nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.TokenClaims{}, fmt.Errorf("%w: bad subject: %w", apperrors.ErrInvalidToken, err)
	}

	return models.TokenClaims{Subject: subject, Role: claims.Role}, nil
}
