package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hearthside/homesite/internal/site/domain"
	"github.com/hearthside/homesite/internal/site/store"
	"github.com/hearthside/homesite/pkg/cryptox"
	"github.com/hearthside/homesite/pkg/idx"
	"github.com/hearthside/homesite/pkg/jwtx"
	"github.com/hearthside/homesite/pkg/slogx"
)

var (
	ErrMissingFields      = errors.New("all required fields must be filled")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidBirthday    = errors.New("invalid birthday format")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	Store      store.Store
	Signer     jwtx.Signer
	Issuer     string
	SessionTTL time.Duration
}

type RegisterInput struct {
	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
	Birthday        string
	BirthdayOptIn   bool
}

// Register creates a self-service account and issues a session token for it.
// Self-registered accounts are never admins and never hold capabilities,
// regardless of anything the client supplied.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	if in.Email == "" || in.FirstName == "" || in.LastName == "" ||
		in.Password == "" || in.ConfirmPassword == "" {
		return domain.User{}, "", ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return domain.User{}, "", ErrPasswordMismatch
	}

	email := NormalizeEmail(in.Email)

	birthday, err := parseBirthday(in.Birthday)
	if err != nil {
		return domain.User{}, "", err
	}

	// Friendly pre-check; the UNIQUE constraint below is the real guard.
	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error("failed to check email availability", slog.Any("error", err))
		return domain.User{}, "", err
	}

	passwordHash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, "", err
	}

	user := domain.User{
		ID:            idx.New().String(),
		Email:         email,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Birthday:      birthday,
		BirthdayOptIn: in.BirthdayOptIn,
		IsAdmin:       false,
		PasswordHash:  passwordHash,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, "", ErrEmailTaken
		}
		log.Error("failed to create user", slog.String("email", email), slog.Any("error", err))
		return domain.User{}, "", err
	}

	token, err := s.IssueSession(user)
	if err != nil {
		log.Error("failed to issue session", slog.String("user_id", user.ID), slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user registered", slog.String("user_id", user.ID))
	return user, token, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to fetch user for login", slog.Any("error", err))
		return domain.User{}, "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.User{}, "", ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.String("user_id", user.ID), slog.Any("error", err))
		return domain.User{}, "", err
	}

	token, err := s.IssueSession(user)
	if err != nil {
		log.Error("failed to issue session", slog.String("user_id", user.ID), slog.Any("error", err))
		return domain.User{}, "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID))
	return user, token, nil
}

// IssueSession mints a signed session token for the user. There is no
// server-side session state: the token is the session.
func (s *AuthService) IssueSession(user domain.User) (string, error) {
	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	claims := jwtx.NewSessionClaims(user.ID, user.Email, s.Issuer, ttl, time.Now().UTC())
	return s.Signer.Sign(claims)
}

// NormalizeEmail lowercases and trims an email so uniqueness checks are
// case/whitespace-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// parseBirthday validates an optional "2006-01-02" date string.
func parseBirthday(s string) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if _, err := time.Parse(domain.BirthdayLayout, s); err != nil {
		return nil, ErrInvalidBirthday
	}
	return &s, nil
}
