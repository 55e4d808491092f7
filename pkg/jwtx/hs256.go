package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrInvalidSig = errors.New("jwtx: invalid signature")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
)

// Signer is anything that can mint a session token.
type Signer interface {
	Sign(Claims) (string, error)
}

// Verifier validates a session token and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

type hs256 struct {
	secret []byte
	issuer string
}

// NewSignerHS256 creates an HMAC-SHA256 signer from a shared secret.
// One process, one secret from the environment; there is no key
// distribution problem to solve here.
func NewSignerHS256(secret []byte, issuer string) Signer {
	return &hs256{secret: secret, issuer: issuer}
}

// NewVerifierHS256 creates a Verifier for tokens minted by NewSignerHS256.
// The issuer claim is enforced when issuer is non-empty.
func NewVerifierHS256(secret []byte, issuer string) Verifier {
	return &hs256{secret: secret, issuer: issuer}
}

func (h *hs256) Sign(c Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(h.secret)
}

func (h *hs256) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSig
		}
		return h.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSig
		default:
			return Claims{}, ErrMalformed
		}
	}

	if h.issuer != "" && claims.Issuer != h.issuer {
		return Claims{}, ErrIssuer
	}

	return claims, nil
}
