package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("token-test-secret-key")

func TestIssueVerify_RoundTrip(t *testing.T) {
	t.Parallel()

	iss := NewIssuer(testKey)
	v := NewVerifier(testKey)

	tok, err := iss.Issue("user-42")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	sub, err := v.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-42", sub)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewIssuer([]byte("other-secret")).Issue("user-42")
	require.NoError(t, err)

	_, err = NewVerifier(testKey).Verify(tok)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	iss := NewIssuer(testKey)
	// pretend the token was issued just past one TTL ago
	iss.now = func() time.Time { return time.Now().Add(-TTL - time.Second) }

	tok, err := iss.Issue("user-42")
	require.NoError(t, err)

	_, err = NewVerifier(testKey).Verify(tok)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerify_ValidWithinTTL(t *testing.T) {
	t.Parallel()

	iss := NewIssuer(testKey)
	// issued almost one TTL ago but still inside the window
	iss.now = func() time.Time { return time.Now().Add(-TTL + time.Minute) }

	tok, err := iss.Issue("user-42")
	require.NoError(t, err)

	sub, err := NewVerifier(testKey).Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "user-42", sub)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	v := NewVerifier(testKey)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := v.Verify(tok)
		require.ErrorIs(t, err, ErrMalformed, "token %q", tok)
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = NewVerifier(testKey).Verify(tok)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerify_RejectsOtherSigningMethods(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "user-42",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testKey)
	require.NoError(t, err)

	_, err = NewVerifier(testKey).Verify(tok)
	require.Error(t, err)
}
