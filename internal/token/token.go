// Package token issues and verifies signed bearer tokens (HS256 JWT).
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is fixed at one hour. Callers needing a different expiry must wrap the
// issuer; there is deliberately no knob here.
const TTL = time.Hour

// Verification failures. The HTTP boundary collapses all of them to a uniform
// 401; logs keep the distinction.
var (
	// ErrMalformed indicates a structurally invalid token (bad encoding,
	// missing required claim).
	ErrMalformed = errors.New("malformed token")

	// ErrInvalidSignature indicates the MAC does not verify under the current
	// signing key.
	ErrInvalidSignature = errors.New("invalid token signature")

	// ErrExpired indicates a well-formed, correctly signed token past its expiry.
	ErrExpired = errors.New("token expired")
)

// Issuer mints time-bounded access tokens for a user id.
type Issuer struct {
	key []byte
	now func() time.Time
}

// NewIssuer constructs an Issuer signing with the given secret key.
func NewIssuer(key []byte) *Issuer {
	return &Issuer{key: key, now: time.Now}
}

// Issue creates a signed token with claims {sub: subject, iat: now, exp: now+TTL}.
// The result is an opaque string safe for an Authorization header.
func (i *Issuer) Issue(subject string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.key)
}

// Verifier checks inbound tokens and extracts the subject claim.
type Verifier struct {
	key []byte
}

// NewVerifier constructs a Verifier for the given secret key.
func NewVerifier(key []byte) *Verifier {
	return &Verifier{key: key}
}

// Verify parses the opaque string, checks the HS256 signature and expiry, and
// returns the subject. Principal resolution is the caller's job.
func (v *Verifier) Verify(tokenString string) (string, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSignature
		}
		return v.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrExpired
		default:
			return "", ErrMalformed
		}
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", ErrMalformed
	}
	return claims.Subject, nil
}
