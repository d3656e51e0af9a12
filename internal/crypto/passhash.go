// Package crypto implements server-side password hashing and verification.
package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost keeps a single hash/verify call within tens of milliseconds on
// current server hardware. Raising it trades login latency for brute-force
// resistance.
const DefaultCost = 12

// ErrEmptyPassword rejects hashing of an empty plaintext. Verification of an
// empty plaintext simply returns false.
var ErrEmptyPassword = errors.New("empty password")

// HashPassword returns the bcrypt hash of plaintext at the given cost. The
// random salt and the cost are embedded in the output string. cost outside
// bcrypt's supported range falls back to DefaultCost.
func HashPassword(plaintext string, cost int) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// VerifyPassword reports whether plaintext matches the stored bcrypt hash.
// The comparison inside bcrypt is constant-time over the derived key; a
// malformed hash yields false, never an error.
func VerifyPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
