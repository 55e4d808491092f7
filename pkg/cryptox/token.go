package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Token size constants (in bytes before encoding).
const (
	// ResetTokenSize yields 40 hex chars, unguessable within a 1 hour window.
	ResetTokenSize = 20
	// APIKeySize yields 32 hex chars, enough for a public key identifier.
	APIKeySize = 16
	// APISecretSize yields 64 hex chars for the secret half of an API credential.
	APISecretSize = 32
)

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, returned as a lowercase hex string.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// FingerprintToken returns a deterministic SHA-256 fingerprint of a token.
// Only fingerprints are stored in the database, so a leaked table does not
// leak usable reset tokens.
//
// The fingerprint is returned as a base64url-encoded string (43 chars).
func FingerprintToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
