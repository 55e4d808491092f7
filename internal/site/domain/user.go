package domain

import (
	"slices"
	"time"
)

// Capability names. Capabilities are per-user overrides layered on top of
// the admin flag, so one-off grants don't need a hardcoded email check.
const (
	// CapManageUsers grants access to the admin user-management routes
	// without the admin flag itself.
	CapManageUsers = "users:manage"
)

// BirthdayLayout is the wire and storage format for birthdays.
const BirthdayLayout = "2006-01-02"

type User struct {
	ID            string
	Email         string // unique, stored lowercased
	FirstName     string
	LastName      string
	Birthday      *string // "2006-01-02", nil when unset
	BirthdayOptIn bool
	IsAdmin       bool
	Capabilities  []string
	PasswordHash  string // argon2id encoded, never plaintext

	// Reset columns are non-nil only while a reset is pending. Only the
	// token fingerprint is persisted, never the raw token.
	ResetTokenHash   *string
	ResetTokenExpiry *time.Time

	// API credential, set once the user requests programmatic access. The
	// secret is stored hashed and shown to the user exactly once.
	APIKey        *string
	APISecretHash *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCapability reports whether the user holds the named capability.
func (u User) HasCapability(name string) bool {
	return slices.Contains(u.Capabilities, name)
}

// CanManageUsers is the admin gate predicate: the admin flag or an explicit
// per-user grant.
func (u User) CanManageUsers() bool {
	return u.IsAdmin || u.HasCapability(CapManageUsers)
}

// Public is the projection safe to return to clients: no password hash, no
// reset state, no API credential.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Birthday:      u.Birthday,
		BirthdayOptIn: u.BirthdayOptIn,
		IsAdmin:       u.IsAdmin,
	}
}

type PublicUser struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	FirstName     string  `json:"firstname"`
	LastName      string  `json:"lastname"`
	Birthday      *string `json:"birthday,omitempty"`
	BirthdayOptIn bool    `json:"birthdayOptIn"`
	IsAdmin       bool    `json:"isadmin"`
}

// BirthdayEntry is the public birthdays projection: exactly id, name, bday.
type BirthdayEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Bday string `json:"bday"`
}
