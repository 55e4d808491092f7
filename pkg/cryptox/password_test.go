package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Set up a temporary pepper file for testing
	tmpDir := os.TempDir()
	pepperPath := filepath.Join(tmpDir, "test-pepper")
	SetPepperPath(pepperPath)

	// Clean up pepper file before and after tests
	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// Verify PHC format
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Contains(t, parts[3], "m=", "should contain memory parameter")
			require.Contains(t, parts[3], "t=", "should contain iterations parameter")
			require.Contains(t, parts[3], "p=", "should contain parallelism parameter")
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	hash1, err := HashPassword(password)
	require.NoError(t, err)

	hash2, err := HashPassword(password)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
}

func TestVerifyPassword(t *testing.T) {
	password := "correct-horse-battery-staple"

	hash, err := HashPassword(password)
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		require.NoError(t, VerifyPassword(password, hash))
	})

	t.Run("wrong password", func(t *testing.T) {
		err := VerifyPassword("wrong-password", hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})

	t.Run("case sensitive", func(t *testing.T) {
		err := VerifyPassword(strings.ToUpper(password), hash)
		require.ErrorIs(t, err, ErrPasswordMismatch)
	})
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty hash", ""},
		{"not a PHC string", "plainhash"},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword("whatever", tt.hash)
			require.Error(t, err)
			require.NotErrorIs(t, err, ErrPasswordMismatch,
				"malformed hashes should be distinguishable from mismatches")
		})
	}
}
