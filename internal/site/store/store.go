package store

import (
	"context"
	"errors"
	"time"

	"github.com/hearthside/homesite/internal/site/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres if the deployment ever outgrows a file) implement this. Exposing
// sub-repositories keeps concerns tidy and testable.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to handle verify-and-mutate sequences.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and the duplicate pre-check.
	// Callers pass normalized (lowercased, trimmed) emails.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by creation.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// ListBirthdayUsers returns only users with the birthday opt-in set.
	ListBirthdayUsers(ctx context.Context) ([]domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken; the UNIQUE
	// constraint is the authoritative guard, not the caller's pre-check.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser rewrites the mutable profile columns (email, names,
	// birthday, opt-in, admin flag, password hash) from u and bumps
	// updated_at. Returns ErrNotFound when the row is gone.
	UpdateUser(ctx context.Context, u domain.User) error

	// DeleteUser removes the row. Returns ErrNotFound for unknown ids.
	DeleteUser(ctx context.Context, id string) error

	// SetResetToken stores the reset-token fingerprint and expiry,
	// replacing any pending reset for the user.
	SetResetToken(ctx context.Context, userID, tokenHash string, expiry time.Time) error

	// ConsumePasswordReset atomically installs newPasswordHash and clears
	// the reset columns on the single row whose token fingerprint matches
	// and whose expiry is after now. Returns the user id, or ErrNotFound
	// when no row matches (invalid, expired, or already consumed).
	ConsumePasswordReset(ctx context.Context, tokenHash string, now time.Time, newPasswordHash string) (string, error)

	// SetAPICredentials stores the API key and hashed secret for a user.
	SetAPICredentials(ctx context.Context, userID, apiKey, secretHash string) error

	// UpdateCapabilities replaces the user's capability set.
	UpdateCapabilities(ctx context.Context, userID string, capabilities []string) error
}
