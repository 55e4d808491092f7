package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hearthside/homesite/internal/site/store"
	"github.com/hearthside/homesite/pkg/cryptox"
	"github.com/hearthside/homesite/pkg/slogx"
)

var ErrWrongPassword = errors.New("current password is incorrect")

// ProfileService implements self-service profile updates.
type ProfileService struct {
	Store store.Store
}

type ProfileInput struct {
	FirstName     string
	LastName      string
	Email         string
	Birthday      string
	BirthdayOptIn bool

	// CurrentPassword must verify before NewPassword is accepted. Both are
	// optional; leaving NewPassword empty keeps the existing hash.
	CurrentPassword string
	NewPassword     string
}

// Update applies a profile change for the calling user. Verification and
// mutation run in one transaction: a failed password check aborts the whole
// update, no partial fields apply.
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput) error {
	log := slogx.FromContext(ctx)

	if in.Email == "" || in.FirstName == "" || in.LastName == "" {
		return ErrMissingFields
	}

	birthday, err := parseBirthday(in.Birthday)
	if err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if in.NewPassword != "" {
			if err := cryptox.VerifyPassword(in.CurrentPassword, user.PasswordHash); err != nil {
				if errors.Is(err, cryptox.ErrPasswordMismatch) {
					return ErrWrongPassword
				}
				log.Error("failed to verify current password", slog.Any("error", err))
				return err
			}

			hash, err := cryptox.HashPassword(in.NewPassword)
			if err != nil {
				log.Error("failed to hash new password", slog.Any("error", err))
				return err
			}
			user.PasswordHash = hash
		}

		user.FirstName = in.FirstName
		user.LastName = in.LastName
		user.Email = NormalizeEmail(in.Email)
		user.Birthday = birthday
		user.BirthdayOptIn = in.BirthdayOptIn

		if err := tx.Users().UpdateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}

		log.Info("profile updated", slog.String("user_id", userID))
		return nil
	})
}
