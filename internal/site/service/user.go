package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"github.com/hearthside/homesite/internal/site/domain"
	"github.com/hearthside/homesite/internal/site/store"
	"github.com/hearthside/homesite/pkg/cryptox"
	"github.com/hearthside/homesite/pkg/idx"
	"github.com/hearthside/homesite/pkg/slogx"
)

var ErrUserNotFound = errors.New("user not found")

// UserService implements the admin user-management operations.
type UserService struct {
	Store store.Store
}

// List returns every user. Callers project through domain.User.Public, so
// no secret material leaves the service boundary.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

type AdminCreateInput struct {
	Email         string
	FirstName     string
	LastName      string
	Password      string
	Birthday      string
	BirthdayOptIn bool
	IsAdmin       bool
}

// Create adds a user on behalf of an admin. Unlike self-registration, the
// admin path may set the admin flag.
func (s *UserService) Create(ctx context.Context, in AdminCreateInput) (string, error) {
	log := slogx.FromContext(ctx)

	if in.Email == "" || in.FirstName == "" || in.LastName == "" || in.Password == "" {
		return "", ErrMissingFields
	}

	birthday, err := parseBirthday(in.Birthday)
	if err != nil {
		return "", err
	}

	passwordHash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return "", err
	}

	user := domain.User{
		ID:            idx.New().String(),
		Email:         NormalizeEmail(in.Email),
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Birthday:      birthday,
		BirthdayOptIn: in.BirthdayOptIn,
		IsAdmin:       in.IsAdmin,
		PasswordHash:  passwordHash,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return "", ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return "", err
	}

	log.Info("user created by admin", slog.String("user_id", user.ID))
	return user.ID, nil
}

type AdminUpdateInput struct {
	Email         string
	FirstName     string
	LastName      string
	Birthday      string
	BirthdayOptIn bool
	IsAdmin       bool
	Password      string // optional; empty keeps the existing hash
}

// Update rewrites a user's fields by id. The password hash is replaced only
// when a new password is supplied.
func (s *UserService) Update(ctx context.Context, id string, in AdminUpdateInput) error {
	log := slogx.FromContext(ctx)

	if in.Email == "" || in.FirstName == "" || in.LastName == "" {
		return ErrMissingFields
	}

	birthday, err := parseBirthday(in.Birthday)
	if err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		user, err := tx.Users().GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		user.Email = NormalizeEmail(in.Email)
		user.FirstName = in.FirstName
		user.LastName = in.LastName
		user.Birthday = birthday
		user.BirthdayOptIn = in.BirthdayOptIn
		user.IsAdmin = in.IsAdmin

		if in.Password != "" {
			hash, err := cryptox.HashPassword(in.Password)
			if err != nil {
				log.Error("failed to hash password", slog.Any("error", err))
				return err
			}
			user.PasswordHash = hash
		}

		if err := tx.Users().UpdateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return nil
	})
}

// Delete removes a user by id. Unknown ids report ErrUserNotFound rather
// than success.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Users().DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	slogx.FromContext(ctx).Info("user deleted", slog.String("user_id", id))
	return nil
}

// SetCapabilities replaces a user's capability set (deduplicated).
func (s *UserService) SetCapabilities(ctx context.Context, id string, capabilities []string) error {
	deduped := make([]string, 0, len(capabilities))
	for _, c := range capabilities {
		if c != "" && !slices.Contains(deduped, c) {
			deduped = append(deduped, c)
		}
	}

	if err := s.Store.Users().UpdateCapabilities(ctx, id, deduped); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	slogx.FromContext(ctx).Info("capabilities updated",
		slog.String("user_id", id), slog.Any("capabilities", deduped))
	return nil
}

// EnsurePrivileged grants the user-management capability to the configured
// privileged email, if that account exists. Called once at startup; this
// replaces any hardcoded email check in the request path.
func (s *UserService) EnsurePrivileged(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}

	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("privileged email has no account yet", slog.String("email", email))
			return nil
		}
		return err
	}

	if user.HasCapability(domain.CapManageUsers) {
		return nil
	}

	caps := append(user.Capabilities, domain.CapManageUsers)
	if err := s.Store.Users().UpdateCapabilities(ctx, user.ID, caps); err != nil {
		return err
	}

	log.Info("granted user-management capability", slog.String("user_id", user.ID))
	return nil
}
