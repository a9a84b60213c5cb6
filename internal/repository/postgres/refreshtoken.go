package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/models"
)

type RefreshTokenRepo struct {
	DB DBTX
}

const refreshColumns = `id, user_id, token_hash, created_at, expires_at, revoked, replaced_by_id`

const createToken = `-- name: CreateRefreshToken
INSERT INTO refresh_tokens (id, user_id, token_hash, created_at, expires_at, revoked, replaced_by_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + refreshColumns

func (r *RefreshTokenRepo) Create(ctx context.Context, token models.RefreshToken) (models.RefreshToken, error) {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createToken,
		token.ID, token.UserID, token.TokenHash, token.CreatedAt, token.ExpiresAt, token.Revoked, token.ReplacedByID,
	)
	created, err := pgx.CollectOneRow(rows, rowToRefreshToken)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return created, apperrors.ErrUserNotFound
		}

		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listActiveByUser = `-- name: ListActiveRefreshTokensByUser
SELECT ` + refreshColumns + `
FROM refresh_tokens
WHERE user_id = $1 AND NOT revoked AND expires_at > $2
ORDER BY created_at DESC
LIMIT $3
`

func (r *RefreshTokenRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, listActiveByUser, userID, now, limit)
	tokens, err := pgx.CollectRows(rows, rowToRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tokens, nil
}

const listActive = `-- name: ListActiveRefreshTokens
SELECT ` + refreshColumns + `
FROM refresh_tokens
WHERE NOT revoked AND expires_at > $1
ORDER BY created_at DESC
LIMIT $2
`

func (r *RefreshTokenRepo) ListActive(ctx context.Context, now time.Time, limit int) ([]models.RefreshToken, error) {
	rows, _ := r.DB.Query(ctx, listActive, now, limit)
	tokens, err := pgx.CollectRows(rows, rowToRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tokens, nil
}

const revokeToken = `-- name: RevokeRefreshToken
UPDATE refresh_tokens
SET revoked = TRUE
WHERE id = $1 AND NOT revoked
`

// Revoke flips the flag once. A second call for the same token reports ErrRefreshTokenRevoked
func (r *RefreshTokenRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, revokeToken, id)
	switch {
	case err != nil:
		return fmt.Errorf("db error: %w", err)
	case tag.RowsAffected() == 0:
		return fmt.Errorf("repo error: %w", apperrors.ErrRefreshTokenRevoked)
	default:
		return nil
	}
}

func rowToRefreshToken(row pgx.CollectableRow) (models.RefreshToken, error) {
	var t models.RefreshToken
	err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt, &t.Revoked, &t.ReplacedByID)
	return t, err
}
