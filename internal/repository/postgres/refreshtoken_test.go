package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/models"
	"github.com/adhyayanx/teachhub/internal/repository"
	"github.com/adhyayanx/teachhub/internal/testutil"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func Test_RefreshTokenRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	now := mustParseTime("2025-01-01 12:00:00Z")

	// Create user and run test with fresh repo inside transaction
	withUser := func(t *testing.T, fn func(repo *RefreshTokenRepo, user models.User)) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			users := UserRepo{DB: tx}
			user, err := users.CreateUser(t.Context(), repository.CreateUserParams{Email: uuid.NewString() + "@x.com"})
			require.NoError(t, err)

			fn(&RefreshTokenRepo{DB: tx}, user)
		})
	}

	newToken := func(userID uuid.UUID, createdAt time.Time) models.RefreshToken {
		return models.RefreshToken{
			ID:        uuid.New(),
			UserID:    userID,
			TokenHash: "hash-" + uuid.NewString(),
			CreatedAt: createdAt,
			ExpiresAt: createdAt.Add(30 * 24 * time.Hour),
		}
	}

	t.Run("create token ok", func(t *testing.T) {
		withUser(t, func(repo *RefreshTokenRepo, user models.User) {
			token := newToken(user.ID, now)

			got, err := repo.Create(t.Context(), token)

			require.NoError(t, err)
			require.Equal(t, token.ID, got.ID)
			require.Equal(t, token.UserID, got.UserID)
			require.Equal(t, token.TokenHash, got.TokenHash)
			require.WithinDuration(t, token.CreatedAt, got.CreatedAt, 0)
			require.WithinDuration(t, token.ExpiresAt, got.ExpiresAt, 0)
			require.False(t, got.Revoked)
			require.Nil(t, got.ReplacedByID)
		})
	})

	t.Run("create token for unknown user", func(t *testing.T) {
		withUser(t, func(repo *RefreshTokenRepo, _ models.User) {
			_, err := repo.Create(t.Context(), newToken(uuid.New(), now))

			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("list active by user newest first and limited", func(t *testing.T) {
		withUser(t, func(repo *RefreshTokenRepo, user models.User) {
			var created []models.RefreshToken
			for i := range 4 {
				token, err := repo.Create(t.Context(), newToken(user.ID, now.Add(time.Duration(i)*time.Minute)))
				require.NoError(t, err)
				created = append(created, token)
			}

			got, err := repo.ListActiveByUser(t.Context(), user.ID, now, 3)

			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, created[3].ID, got[0].ID)
			assert.Equal(t, created[2].ID, got[1].ID)
			assert.Equal(t, created[1].ID, got[2].ID)
		})
	})

	t.Run("list active skips revoked expired and other users", func(t *testing.T) {
		withUser(t, func(repo *RefreshTokenRepo, user models.User) {
			active, err := repo.Create(t.Context(), newToken(user.ID, now))
			require.NoError(t, err)

			revoked, err := repo.Create(t.Context(), newToken(user.ID, now))
			require.NoError(t, err)
			require.NoError(t, repo.Revoke(t.Context(), revoked.ID))

			expired := newToken(user.ID, now.Add(-time.Hour))
			expired.ExpiresAt = now
			_, err = repo.Create(t.Context(), expired)
			require.NoError(t, err)

			got, err := repo.ListActiveByUser(t.Context(), user.ID, now, 10)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, active.ID, got[0].ID)

			got, err = repo.ListActiveByUser(t.Context(), uuid.New(), now, 10)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	})

	t.Run("list active across users", func(t *testing.T) {
		withUser(t, func(repo *RefreshTokenRepo, user models.User) {
			first, err := repo.Create(t.Context(), newToken(user.ID, now.Add(1000*time.Hour)))
			require.NoError(t, err)

			got, err := repo.ListActive(t.Context(), now, 1)

			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, first.ID, got[0].ID)
		})
	})

	t.Run("revoke once", func(t *testing.T) {
		withUser(t, func(repo *RefreshTokenRepo, user models.User) {
			token, err := repo.Create(t.Context(), newToken(user.ID, now))
			require.NoError(t, err)

			err = repo.Revoke(t.Context(), token.ID)
			require.NoError(t, err)

			err = repo.Revoke(t.Context(), token.ID)
			require.Error(t, err, "revoke has to fail for revoked token")
			assert.ErrorIs(t, err, apperrors.ErrRefreshTokenRevoked)
		})
	})
}
