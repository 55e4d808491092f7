package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/hearthside/homesite/internal/site/service"
	"github.com/hearthside/homesite/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newProfileFixture(t *testing.T) (*service.ProfileService, *service.AuthService, string) {
	t.Helper()

	st := newTestStore(t)
	auth := &service.AuthService{
		Store:      st,
		Signer:     jwtx.NewSignerHS256([]byte("test-secret"), "test"),
		Issuer:     "test",
		SessionTTL: time.Hour,
	}

	registered, _, err := auth.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	return &service.ProfileService{Store: st}, auth, registered.ID
}

func TestProfileUpdate(t *testing.T) {
	ctx := context.Background()
	profile, auth, userID := newProfileFixture(t)

	err := profile.Update(ctx, userID, service.ProfileInput{
		FirstName:     "Alicia",
		LastName:      "Smith",
		Email:         "alicia@example.com",
		Birthday:      "1990-04-12",
		BirthdayOptIn: false,
	})
	require.NoError(t, err)

	user, _, err := auth.Login(ctx, "alicia@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "Alicia", user.FirstName)
	require.False(t, user.BirthdayOptIn)
}

func TestProfileUpdate_PasswordChange(t *testing.T) {
	ctx := context.Background()
	profile, auth, userID := newProfileFixture(t)

	err := profile.Update(ctx, userID, service.ProfileInput{
		FirstName:       "Alice",
		LastName:        "Smith",
		Email:           "alice@example.com",
		CurrentPassword: "password123",
		NewPassword:     "newpassword456",
	})
	require.NoError(t, err)

	_, _, err = auth.Login(ctx, "alice@example.com", "newpassword456")
	require.NoError(t, err)
}

func TestProfileUpdate_WrongCurrentPasswordAbortsEverything(t *testing.T) {
	ctx := context.Background()
	profile, auth, userID := newProfileFixture(t)

	err := profile.Update(ctx, userID, service.ProfileInput{
		FirstName:       "Changed",
		LastName:        "Smith",
		Email:           "changed@example.com",
		CurrentPassword: "wrong",
		NewPassword:     "newpassword456",
	})
	require.ErrorIs(t, err, service.ErrWrongPassword)

	// The failed password check rolled back the name/email changes too.
	user, _, err := auth.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, "Alice", user.FirstName)
}

func TestProfileUpdate_NoPasswordCheckWithoutNewPassword(t *testing.T) {
	ctx := context.Background()
	profile, _, userID := newProfileFixture(t)

	// CurrentPassword is ignored when no new password is supplied.
	err := profile.Update(ctx, userID, service.ProfileInput{
		FirstName:       "Alice",
		LastName:        "Smith",
		Email:           "alice@example.com",
		CurrentPassword: "wrong",
	})
	require.NoError(t, err)
}

func TestProfileUpdate_Validation(t *testing.T) {
	ctx := context.Background()
	profile, _, userID := newProfileFixture(t)

	err := profile.Update(ctx, userID, service.ProfileInput{
		FirstName: "",
		LastName:  "Smith",
		Email:     "alice@example.com",
	})
	require.ErrorIs(t, err, service.ErrMissingFields)

	err = profile.Update(ctx, userID, service.ProfileInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Birthday:  "not-a-date",
	})
	require.ErrorIs(t, err, service.ErrInvalidBirthday)

	err = profile.Update(ctx, "01JUNKJUNKJUNKJUNKJUNKJUNK", service.ProfileInput{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "other@example.com",
	})
	require.ErrorIs(t, err, service.ErrUserNotFound)
}
