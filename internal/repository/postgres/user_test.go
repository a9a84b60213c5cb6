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

func ptr[T any](v T) *T { return &v }

func Test_UserRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	params := repository.CreateUserParams{
		Email:        "a@x.com",
		PasswordHash: ptr("hashed-password"),
		FullName:     ptr("Amit Student"),
		Role:         models.RoleTeacher,
		InstituteID:  ptr("skillyard"),
	}

	t.Run("create user ok", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			user, err := r.CreateUser(t.Context(), params)

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID)
			assert.Equal(t, "a@x.com", user.Email)
			assert.Equal(t, "hashed-password", *user.PasswordHash)
			assert.Equal(t, models.RoleTeacher, user.Role)
			assert.Equal(t, "skillyard", *user.InstituteID)
			assert.Nil(t, user.PasswordResetTokenHash)
			assert.Nil(t, user.PasswordResetExpiresAt)
			assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Second, "CreatedAt should be recent")
		})
	})

	t.Run("create user default role", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			user, err := r.CreateUser(t.Context(), repository.CreateUserParams{Email: "b@x.com"})

			require.NoError(t, err)
			assert.Equal(t, models.RoleStudent, user.Role)
			assert.Nil(t, user.PasswordHash, "password hash is nullable")
		})
	})

	t.Run("create user email in use", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			_, err := r.CreateUser(t.Context(), params)
			require.NoError(t, err)

			_, err = r.CreateUser(t.Context(), params)

			require.ErrorIs(t, err, apperrors.ErrEmailInUse)

			_, err = r.GetUserByEmail(t.Context(), params.Email)
			require.NoError(t, err, "transaction must stay usable after conflict")
		})
	})

	t.Run("get user by id and email", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.CreateUser(t.Context(), params)
			require.NoError(t, err)

			byID, err := r.GetUserByID(t.Context(), created.ID)
			require.NoError(t, err)
			byEmail, err := r.GetUserByEmail(t.Context(), created.Email)
			require.NoError(t, err)

			assert.Equal(t, created, byID)
			assert.Equal(t, created, byEmail)
		})
	})

	t.Run("get user not found", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			_, err := r.GetUserByID(t.Context(), uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

			_, err = r.GetUserByEmail(t.Context(), "nobody@x.com")
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

			_, err = r.GetProfile(t.Context(), uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("get profile", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.CreateUser(t.Context(), params)
			require.NoError(t, err)

			profile, err := r.GetProfile(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created.Profile(), profile)
		})
	})

	t.Run("password reset lifecycle", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.CreateUser(t.Context(), params)
			require.NoError(t, err)
			expiresAt := time.Now().Add(time.Hour).Truncate(time.Microsecond)

			err = r.SetPasswordReset(t.Context(), created.ID, "reset-hash", expiresAt)
			require.NoError(t, err)

			got, err := r.GetUserByID(t.Context(), created.ID)
			require.NoError(t, err)
			require.NotNil(t, got.PasswordResetTokenHash)
			assert.Equal(t, "reset-hash", *got.PasswordResetTokenHash)
			assert.WithinDuration(t, expiresAt, *got.PasswordResetExpiresAt, 0)

			err = r.ResetPassword(t.Context(), created.ID, "new-password-hash", "other-hash")
			require.ErrorIs(t, err, apperrors.ErrResetTokenNotFound, "stale reset hash must not be accepted")

			err = r.ResetPassword(t.Context(), created.ID, "new-password-hash", "reset-hash")
			require.NoError(t, err)

			got, err = r.GetUserByID(t.Context(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, "new-password-hash", *got.PasswordHash)
			assert.Nil(t, got.PasswordResetTokenHash, "reset hash has to be cleared")
			assert.Nil(t, got.PasswordResetExpiresAt, "reset expiry has to be cleared")

			err = r.ResetPassword(t.Context(), created.ID, "another-hash", "reset-hash")
			require.ErrorIs(t, err, apperrors.ErrResetTokenNotFound, "reset hash is one time")
		})
	})

	t.Run("set password reset for missing user", func(t *testing.T) {
		testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			err := r.SetPasswordReset(t.Context(), uuid.New(), "hash", time.Now())

			require.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}
