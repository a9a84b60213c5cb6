package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"

	"github.com/adhyayanx/teachhub/internal/apperrors"
	"github.com/adhyayanx/teachhub/internal/metrics"
)

const (
	resetTokenBytes   = 32
	resetEmailSubject = "Password reset for AdhyayanX"
)

// ForgotPassword stores hash of fresh reset token and emails the raw token
// Unknown email is not an error: caller must not be able to tell the difference
func (s *Service) ForgotPassword(ctx context.Context, email string) (err error) {
	defer s.observe(metrics.FlowForgotPassword, &err)

	email = NormalizeEmail(email)
	if email == "" {
		return nil
	}

	user, err := s.storage.User().GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		s.logger.Debug("Password reset requested for unknown email")
		return nil
	case err != nil:
		return err
	}

	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return fmt.Errorf("error while generate reset token. Err: %w", err)
	}
	token := hex.EncodeToString(b)

	hash, err := s.hasher.Hash(token)
	if err != nil {
		return fmt.Errorf("error while hashing reset token. Err: %w", err)
	}

	err = s.storage.User().SetPasswordReset(ctx, user.ID, hash, s.now().Add(s.resetTTL))
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, user.Email, resetEmailSubject, s.resetEmailBody(token, user.Email))
}

// ResetPassword sets new password if token matches the stored one and is not expired
// Token is one time: successful reset clears it
func (s *Service) ResetPassword(ctx context.Context, email string, token string, newPassword string) (err error) {
	defer s.observe(metrics.FlowResetPassword, &err)

	user, err := s.storage.User().GetUserByEmail(ctx, NormalizeEmail(email))
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return apperrors.ErrInvalidToken
	case err != nil:
		return err
	}

	if user.PasswordResetTokenHash == nil || user.PasswordResetExpiresAt == nil {
		return apperrors.ErrInvalidToken
	}
	if !s.now().Before(*user.PasswordResetExpiresAt) {
		return apperrors.ErrTokenExpired
	}
	if !s.hasher.Verify(token, *user.PasswordResetTokenHash) {
		return apperrors.ErrInvalidToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("can't use this as password, error=%w", err)
	}

	// Stored hash may have been replaced or consumed after it was read
	err = s.storage.User().ResetPassword(ctx, user.ID, hash, *user.PasswordResetTokenHash)
	if errors.Is(err, apperrors.ErrResetTokenNotFound) {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidToken, err)
	}

	return err
}

func (s *Service) resetEmailBody(token string, email string) string {
	link := s.resetURL + "?token=" + url.QueryEscape(token) + "&email=" + url.QueryEscape(email)

	return fmt.Sprintf(
		"We received a request to reset your AdhyayanX password.\n\n"+
			"Follow the link below to choose a new one. It is valid for %d minutes.\n\n"+
			"%s\n\n"+
			"If you did not ask for this, ignore this email.\n",
		int(s.resetTTL.Minutes()), link,
	)
}
