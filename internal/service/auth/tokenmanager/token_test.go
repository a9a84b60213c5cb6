package tokenmanager

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/models"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

// Clock that may be moved by tests
type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func Test_TokenManager(t *testing.T) {
	t.Parallel()

	subject := uuid.New()

	newManager := func(t *testing.T, c *clock) *TokenManager {
		m, err := New(Config{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    24 * time.Hour,
			Now:           c.Now,
		})
		require.NoError(t, err, "token manager should be created without errors")
		return m
	}

	t.Run("new defaults", func(t *testing.T) {
		m, err := New(Config{AccessSecret: "a", RefreshSecret: "r"})
		require.NoError(t, err, "token manager should be created without errors")

		require.Equal(t, defaultAccessTokenTTL, m.accessTTL, "default access token TTL should be set")
		require.Equal(t, defaultRefreshTokenTTL, m.refreshTTL, "default refresh token TTL")
		require.Equal(t, defaultSigningMethod, m.alg.Alg(), "default signing method should be set")
		require.Equal(t, 30*24*60*60, m.RefreshLifetimeSeconds())
	})

	t.Run("new fails", func(t *testing.T) {
		tests := []struct {
			name string
			cfg  Config
		}{
			{"empty access secret", Config{RefreshSecret: "r"}},
			{"empty refresh secret", Config{AccessSecret: "a"}},
			{"same secrets", Config{AccessSecret: "same", RefreshSecret: "same"}},
			{"not hmac", Config{AccessSecret: "a", RefreshSecret: "r", Alg: "RS256"}},
			{"unknown alg", Config{AccessSecret: "a", RefreshSecret: "r", Alg: "nope"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := New(tt.cfg)
				require.Error(t, err)
			})
		}
	})

	t.Run("sign and verify access", func(t *testing.T) {
		c := &clock{now: mustParseTime("2025-01-01 12:00:00Z")}
		m := newManager(t, c)

		token, err := m.SignAccess(subject, models.RoleTeacher)
		require.NoError(t, err)
		assert.Equal(t, c.now.Add(15*time.Minute), token.ExpiresAt)

		claims, err := m.VerifyAccess(token.Value)
		require.NoError(t, err)
		assert.Equal(t, models.TokenClaims{Subject: subject, Role: models.RoleTeacher}, claims)
	})

	t.Run("sign and verify refresh", func(t *testing.T) {
		c := &clock{now: mustParseTime("2025-01-01 12:00:00Z")}
		m := newManager(t, c)

		token, err := m.SignRefresh(subject, models.RoleStudent)
		require.NoError(t, err)
		assert.Equal(t, c.now.Add(24*time.Hour), token.ExpiresAt)

		claims, err := m.VerifyRefresh(token.Value)
		require.NoError(t, err)
		assert.Equal(t, subject, claims.Subject)
		assert.Equal(t, models.RoleStudent, claims.Role)
	})

	t.Run("claims carry no email", func(t *testing.T) {
		c := &clock{now: time.Now()}
		m := newManager(t, c)

		token, err := m.SignAccess(subject, models.RoleStudent)
		require.NoError(t, err)

		parsed := jwt.MapClaims{}
		_, _, err = jwt.NewParser().ParseUnverified(token.Value, parsed)
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"sub", "role", "jti", "iat", "exp"}, keys(parsed))
	})

	t.Run("keys are separated", func(t *testing.T) {
		c := &clock{now: time.Now()}
		m := newManager(t, c)

		access, err := m.SignAccess(subject, models.RoleStudent)
		require.NoError(t, err)
		refresh, err := m.SignRefresh(subject, models.RoleStudent)
		require.NoError(t, err)

		_, err = m.VerifyRefresh(access.Value)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "access token must not pass as refresh")

		_, err = m.VerifyAccess(refresh.Value)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken, "refresh token must not pass as access")
	})

	t.Run("tokens minted same second differ", func(t *testing.T) {
		c := &clock{now: mustParseTime("2025-01-01 12:00:00Z")}
		m := newManager(t, c)

		first, err := m.SignRefresh(subject, models.RoleStudent)
		require.NoError(t, err)
		second, err := m.SignRefresh(subject, models.RoleStudent)
		require.NoError(t, err)

		assert.NotEqual(t, first.Value, second.Value)
	})

	t.Run("expired", func(t *testing.T) {
		c := &clock{now: mustParseTime("2025-01-01 12:00:00Z")}
		m := newManager(t, c)

		token, err := m.SignAccess(subject, models.RoleStudent)
		require.NoError(t, err)

		c.now = c.now.Add(15*time.Minute - time.Second)
		_, err = m.VerifyAccess(token.Value)
		require.NoError(t, err, "still valid a second before expiry")

		c.now = c.now.Add(time.Second)
		_, err = m.VerifyAccess(token.Value)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken, "token has to become expired")
	})

	t.Run("not a token", func(t *testing.T) {
		m := newManager(t, &clock{now: time.Now()})

		_, err := m.VerifyAccess("invalid token")
		require.ErrorIs(t, err, apperrors.ErrInvalidToken, "parsing even not a token should return an error")
	})

	t.Run("not signed token", func(t *testing.T) {
		m := newManager(t, &clock{now: time.Now()})

		token := jwt.NewWithClaims(
			jwt.SigningMethodNone,
			Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   subject.String(),
					ID:        uuid.NewString(),
					IssuedAt:  jwt.NewNumericDate(time.Now()),
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(15 * time.Minute)),
				},
				Role: models.RoleSuperAdmin,
			},
		)
		access, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.VerifyAccess(access)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken, "Valid token with empty alg must fail")
	})

	t.Run("token without expiry", func(t *testing.T) {
		m := newManager(t, &clock{now: time.Now()})

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: subject.String()},
			Role:             models.RoleStudent,
		})
		access, err := token.SignedString([]byte("access-secret"))
		require.NoError(t, err)

		_, err = m.VerifyAccess(access)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("bad subject", func(t *testing.T) {
		m := newManager(t, &clock{now: time.Now()})

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "not-uuid",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		})
		access, err := token.SignedString([]byte("access-secret"))
		require.NoError(t, err)

		_, err = m.VerifyAccess(access)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func keys(m jwt.MapClaims) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
