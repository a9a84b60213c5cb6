package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/metrics"
	"github.com/adhyayanx/teachhub/internal/models"
	"github.com/adhyayanx/teachhub/internal/repository"
)

// Login with email and password
// Unknown email, user without password and wrong password are the same ErrInvalidCredentials
func (s *Service) Login(ctx context.Context, email string, password string) (session models.Session, err error) {
	defer s.observe(metrics.FlowLogin, &err)

	user, err := s.storage.User().GetUserByEmail(ctx, NormalizeEmail(email))
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		s.hasher.Verify(password, s.dummyHash)
		return session, apperrors.ErrInvalidCredentials
	case err != nil:
		return session, err
	case user.PasswordHash == nil:
		s.hasher.Verify(password, s.dummyHash)
		return session, apperrors.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, *user.PasswordHash) {
		return session, apperrors.ErrInvalidCredentials
	}

	return s.issueSession(ctx, s.storage, user)
}

// Refresh rotates refresh token: the presented one is revoked and a new pair is issued
// Signature failure and absent stored match are both ErrInvalidToken
func (s *Service) Refresh(ctx context.Context, refresh string) (session models.Session, err error) {
	defer s.observe(metrics.FlowRefresh, &err)

	if refresh == "" {
		return session, apperrors.ErrMissingToken
	}

	claims, err := s.tokens.VerifyRefresh(refresh)
	if err != nil {
		return session, err
	}

	candidates, err := s.storage.Refresh().ListActiveByUser(ctx, claims.Subject, s.now(), s.refreshCandidates)
	if err != nil {
		return session, err
	}

	matched, ok := s.match(refresh, candidates)
	if !ok {
		return session, fmt.Errorf("%w: no stored refresh token matched", apperrors.ErrInvalidToken)
	}

	err = s.storage.InTx(ctx, func(storage repository.Storage) error {
		err := storage.Refresh().Revoke(ctx, matched.ID)
		if errors.Is(err, apperrors.ErrRefreshTokenRevoked) {
			return fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
		}
		if err != nil {
			return err
		}

		user, err := storage.User().GetUserByID(ctx, matched.UserID)
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
		}
		if err != nil {
			return err
		}

		session, err = s.issueSession(ctx, storage, user)
		return err
	})
	if err != nil {
		return models.Session{}, err
	}

	s.metrics.TokensRevoked(metrics.FlowRefresh, 1)
	return session, nil
}

// Logout revokes every recent active record matching presented token
// Empty token is ok, nothing to revoke
func (s *Service) Logout(ctx context.Context, refresh string) (err error) {
	defer s.observe(metrics.FlowLogout, &err)

	if refresh == "" {
		return nil
	}

	candidates, err := s.storage.Refresh().ListActive(ctx, s.now(), s.logoutCandidates)
	if err != nil {
		return err
	}

	revoked := 0
	for _, candidate := range candidates {
		if !s.hasher.Verify(refresh, candidate.TokenHash) {
			continue
		}

		err := s.storage.Refresh().Revoke(ctx, candidate.ID)
		switch {
		case errors.Is(err, apperrors.ErrRefreshTokenRevoked):
			continue
		case err != nil:
			return err
		}
		revoked++
	}

	s.metrics.TokensRevoked(metrics.FlowLogout, revoked)
	s.logger.Debug("Logout done", "revoked", revoked)
	return nil
}

// Sequentially test token against stored hashes
func (s *Service) match(token string, candidates []models.RefreshToken) (models.RefreshToken, bool) {
	for _, candidate := range candidates {
		if s.hasher.Verify(token, candidate.TokenHash) {
			return candidate, true
		}
	}
	return models.RefreshToken{}, false
}
