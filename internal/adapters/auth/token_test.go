package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTCodec_RoundTrip(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret", time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestJWTCodec_ExpiredToken(t *testing.T) {
	issuer, verifier := NewJWTCodec("test-secret", -time.Minute)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTCodec_WrongSecret(t *testing.T) {
	issuer, _ := NewJWTCodec("secret-a", time.Hour)
	_, verifier := NewJWTCodec("secret-b", time.Hour)

	token, err := issuer.Issue("user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTCodec_RejectsUnexpectedAlgorithm(t *testing.T) {
	_, verifier := NewJWTCodec("test-secret", time.Hour)

	// HS512-signed token with the right secret must still be rejected.
	claims := jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTCodec_RejectsMissingSubject(t *testing.T) {
	_, verifier := NewJWTCodec("test-secret", time.Hour)

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}
