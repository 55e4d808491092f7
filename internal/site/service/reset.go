package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hearthside/homesite/internal/site/domain"
	"github.com/hearthside/homesite/internal/site/store"
	"github.com/hearthside/homesite/pkg/cryptox"
	"github.com/hearthside/homesite/pkg/slogx"
)

// DefaultResetTokenTTL is how long a reset link stays valid.
const DefaultResetTokenTTL = time.Hour

var (
	ErrUnknownEmail     = errors.New("no account found with that email address")
	ErrInvalidOrExpired = errors.New("invalid or expired reset token")
)

// Mailer is the slice of the mail transport the reset flow needs.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

type ResetService struct {
	Store     store.Store
	Mailer    Mailer
	Auth      *AuthService // issues the auto-login session after a reset
	PublicURL string       // base URL the reset link points at
	TokenTTL  time.Duration
}

// RequestReset moves a user into the reset-pending state: it generates a
// random token, persists its fingerprint with an expiry, and emails the
// link. An unknown email changes nothing.
func (s *ResetService) RequestReset(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUnknownEmail
		}
		log.Error("failed to fetch user for reset", slog.Any("error", err))
		return err
	}

	token, err := cryptox.GenerateToken(cryptox.ResetTokenSize)
	if err != nil {
		log.Error("failed to generate reset token", slog.Any("error", err))
		return err
	}

	ttl := s.TokenTTL
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}
	expiry := time.Now().UTC().Add(ttl)

	// A new request replaces any pending reset; only the fingerprint is stored.
	fingerprint := cryptox.FingerprintToken(token)
	if err := s.Store.Users().SetResetToken(ctx, user.ID, fingerprint, expiry); err != nil {
		log.Error("failed to persist reset token", slog.String("user_id", user.ID), slog.Any("error", err))
		return err
	}

	resetURL := s.PublicURL + "/reset/" + token
	if err := s.Mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		log.Error("failed to send reset email", slog.String("user_id", user.ID), slog.Any("error", err))
		return err
	}

	log.Info("password reset requested", slog.String("user_id", user.ID), slog.Time("expires_at", expiry))
	return nil
}

// CompleteReset consumes a reset token exactly once: the match-and-mutate is
// a single conditional update, so a replay of the same token fails because
// the row no longer matches. On success the user is auto-logged-in with a
// fresh session token.
func (s *ResetService) CompleteReset(ctx context.Context, token, newPassword string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if token == "" || newPassword == "" {
		return domain.User{}, "", ErrMissingFields
	}

	passwordHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash new password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	userID, err := s.Store.Users().ConsumePasswordReset(
		ctx, cryptox.FingerprintToken(token), time.Now().UTC(), passwordHash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidOrExpired
		}
		log.Error("failed to consume reset token", slog.Any("error", err))
		return domain.User{}, "", err
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		log.Error("failed to load user after reset", slog.String("user_id", userID), slog.Any("error", err))
		return domain.User{}, "", err
	}

	sessionToken, err := s.Auth.IssueSession(user)
	if err != nil {
		log.Error("failed to issue session after reset", slog.String("user_id", userID), slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("password reset completed", slog.String("user_id", userID))
	return user, sessionToken, nil
}
