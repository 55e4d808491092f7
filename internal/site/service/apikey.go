package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hearthside/homesite/internal/site/store"
	"github.com/hearthside/homesite/pkg/cryptox"
	"github.com/hearthside/homesite/pkg/slogx"
)

// APIKeyService issues programmatic-access credentials.
type APIKeyService struct {
	Store store.Store
}

// Generate mints a fresh API key and secret for the user, replacing any
// previous credential. Only the secret's hash is stored; the raw secret is
// returned exactly once and cannot be recovered later.
func (s *APIKeyService) Generate(ctx context.Context, userID string) (apiKey, apiSecret string, err error) {
	log := slogx.FromContext(ctx)

	apiKey, err = cryptox.GenerateToken(cryptox.APIKeySize)
	if err != nil {
		log.Error("failed to generate api key", slog.Any("error", err))
		return "", "", err
	}

	apiSecret, err = cryptox.GenerateToken(cryptox.APISecretSize)
	if err != nil {
		log.Error("failed to generate api secret", slog.Any("error", err))
		return "", "", err
	}

	secretHash, err := cryptox.HashPassword(apiSecret)
	if err != nil {
		log.Error("failed to hash api secret", slog.Any("error", err))
		return "", "", err
	}

	if err := s.Store.Users().SetAPICredentials(ctx, userID, apiKey, secretHash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", "", ErrUserNotFound
		}
		log.Error("failed to store api credentials", slog.String("user_id", userID), slog.Any("error", err))
		return "", "", err
	}

	log.Info("api key generated", slog.String("user_id", userID))
	return apiKey, apiSecret, nil
}
