package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexusjob_backend/internal/models"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func baseClaims() Claims {
	return Claims{
		Role: models.UserRoleSeeker,
		Name: "Dana",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "https://idp.test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifier(testSecret, "https://idp.test")

	claims, err := v.Verify(signToken(t, testSecret, baseClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, models.UserRoleSeeker, claims.Role)
	assert.Equal(t, "Dana", claims.Name)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	v := NewVerifier(testSecret, "")

	_, err := v.Verify(signToken(t, "other-secret", baseClaims()))
	assert.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := NewVerifier(testSecret, "")

	claims := baseClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	_, err := v.Verify(signToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	v := NewVerifier(testSecret, "https://expected.test")

	_, err := v.Verify(signToken(t, testSecret, baseClaims()))
	assert.Error(t, err)
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	v := NewVerifier(testSecret, "")

	claims := baseClaims()
	claims.Role = "ADMIN"

	_, err := v.Verify(signToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	v := NewVerifier(testSecret, "")

	claims := baseClaims()
	claims.Subject = ""

	_, err := v.Verify(signToken(t, testSecret, claims))
	assert.Error(t, err)
}

func TestFromHeader(t *testing.T) {
	token, ok := FromHeader("Bearer abc.def.ghi")
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", token)

	_, ok = FromHeader("")
	assert.False(t, ok)

	_, ok = FromHeader("Basic abc")
	assert.False(t, ok)

	_, ok = FromHeader("Bearer ")
	assert.False(t, ok)
}
