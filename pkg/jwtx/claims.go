package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for a session token. Short-lived
// because there is no revocation list: a token stays valid until expiry.
const DefaultSessionTTL = time.Hour

// Claims are the session-token claims. Keeping changes additive preserves
// compatibility with already-issued cookies.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user, mirrored into the token so handlers
	// don't need a user lookup just to display it.
	Email string `json:"email,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a logged-in user.
func NewSessionClaims(userID, email, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Email: email,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
