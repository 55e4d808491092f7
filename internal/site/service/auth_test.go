package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *service.AuthService {
	t.Helper()
	return &service.AuthService{
		Store:      newTestStore(t),
		Signer:     jwtx.NewSignerHS256([]byte("test-secret"), "test"),
		Issuer:     "test",
		SessionTTL: time.Hour,
	}
}

func validRegistration() service.RegisterInput {
	return service.RegisterInput{
		Email:           "alice@example.com",
		FirstName:       "Alice",
		LastName:        "Smith",
		Password:        "password123",
		ConfirmPassword: "password123",
		Birthday:        "1990-04-12",
		BirthdayOptIn:   true,
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	user, token, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.NotEmpty(t, token)
	require.Equal(t, "alice@example.com", user.Email)
	require.False(t, user.IsAdmin, "self-registration never creates admins")
	require.Empty(t, user.Capabilities)
	require.NotEqual(t, "password123", user.PasswordHash, "password must be hashed")

	// The token should verify against the matching verifier.
	verifier := jwtx.NewVerifierHS256([]byte("test-secret"), "test")
	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.Subject)
	require.Equal(t, user.Email, claims.Email)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	tests := []struct {
		name    string
		mutate  func(*service.RegisterInput)
		wantErr error
	}{
		{"missing email", func(in *service.RegisterInput) { in.Email = "" }, service.ErrMissingFields},
		{"missing first name", func(in *service.RegisterInput) { in.FirstName = "" }, service.ErrMissingFields},
		{"missing password", func(in *service.RegisterInput) { in.Password = "" }, service.ErrMissingFields},
		{"password mismatch", func(in *service.RegisterInput) { in.ConfirmPassword = "different" }, service.ErrPasswordMismatch},
		{"bad birthday", func(in *service.RegisterInput) { in.Birthday = "12/04/1990" }, service.ErrInvalidBirthday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)

			_, _, err := auth.Register(ctx, in)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	_, _, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	t.Run("exact duplicate", func(t *testing.T) {
		_, _, err := auth.Register(ctx, validRegistration())
		require.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("case and whitespace variants collide", func(t *testing.T) {
		in := validRegistration()
		in.Email = "  ALICE@Example.COM "
		_, _, err := auth.Register(ctx, in)
		require.ErrorIs(t, err, service.ErrEmailTaken)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	auth := newAuthService(t)

	registered, _, err := auth.Register(ctx, validRegistration())
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		user, token, err := auth.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		require.Equal(t, registered.ID, user.ID)
		require.NotEmpty(t, token)
	})

	t.Run("email is case insensitive", func(t *testing.T) {
		user, _, err := auth.Login(ctx, "Alice@EXAMPLE.com", "password123")
		require.NoError(t, err)
		require.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		_, _, err := auth.Login(ctx, "nobody@example.com", "password123")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}
