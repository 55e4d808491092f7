package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/pkg/cryptox"
	"github.com/hearthside/homesite/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	auth := &service.AuthService{
		Store:      st,
		Signer:     jwtx.NewSignerHS256([]byte("test-secret"), "test"),
		Issuer:     "test",
		SessionTTL: time.Hour,
	}
	apiKeys := &service.APIKeyService{Store: st}

	registered, _, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	apiKey, apiSecret, err := apiKeys.Generate(ctx, registered.ID)
	require.NoError(t, err)
	require.Len(t, apiKey, cryptox.APIKeySize*2)
	require.Len(t, apiSecret, cryptox.APISecretSize*2)

	user, err := st.Users().GetUserByID(ctx, registered.ID)
	require.NoError(t, err)
	require.NotNil(t, user.APIKey)
	require.Equal(t, apiKey, *user.APIKey)
	require.NotNil(t, user.APISecretHash)
	require.NotEqual(t, apiSecret, *user.APISecretHash, "raw secret must never be stored")
	require.NoError(t, cryptox.VerifyPassword(apiSecret, *user.APISecretHash))

	t.Run("regeneration replaces the credential", func(t *testing.T) {
		newKey, newSecret, err := apiKeys.Generate(ctx, registered.ID)
		require.NoError(t, err)
		require.NotEqual(t, apiKey, newKey)

		user, err := st.Users().GetUserByID(ctx, registered.ID)
		require.NoError(t, err)
		require.Equal(t, newKey, *user.APIKey)
		require.NoError(t, cryptox.VerifyPassword(newSecret, *user.APISecretHash))
		require.ErrorIs(t, cryptox.VerifyPassword(apiSecret, *user.APISecretHash), cryptox.ErrPasswordMismatch)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, _, err := apiKeys.Generate(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK")
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})
}
