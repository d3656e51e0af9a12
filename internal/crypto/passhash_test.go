package crypto

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// testCost keeps the suite fast; the verify/hash contract is cost-independent.
const testCost = bcrypt.MinCost

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("hunter22", testCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h == "hunter22" {
		t.Fatalf("hash equals plaintext")
	}
	if !VerifyPassword("hunter22", h) {
		t.Fatalf("VerifyPassword: expected true for correct password")
	}
	if VerifyPassword("hunter23", h) {
		t.Fatalf("VerifyPassword: expected false for wrong password")
	}
}

func TestHashPassword_SaltRandomized(t *testing.T) {
	t.Parallel()

	h1, err := HashPassword("same-password", testCost)
	if err != nil {
		t.Fatalf("HashPassword(1): %v", err)
	}
	h2, err := HashPassword("same-password", testCost)
	if err != nil {
		t.Fatalf("HashPassword(2): %v", err)
	}
	if h1 == h2 {
		t.Fatalf("two hashes of the same plaintext are equal — salt not randomized")
	}
	if !VerifyPassword("same-password", h1) || !VerifyPassword("same-password", h2) {
		t.Fatalf("both hashes must verify against the original plaintext")
	}
}

func TestHashPassword_EmptyPlaintextRejected(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("", testCost); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("want ErrEmptyPassword, got %v", err)
	}
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("pw", 99)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(h))
	if err != nil {
		t.Fatalf("Cost: %v", err)
	}
	if cost != DefaultCost {
		t.Fatalf("cost=%d, want DefaultCost=%d", cost, DefaultCost)
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	t.Parallel()

	if VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Fatalf("VerifyPassword: expected false for malformed hash")
	}
	if VerifyPassword("anything", "") {
		t.Fatalf("VerifyPassword: expected false for empty hash")
	}
	if VerifyPassword("", mustHash(t, "pw")) {
		t.Fatalf("VerifyPassword: expected false for empty plaintext")
	}
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := HashPassword(pw, testCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return h
}
