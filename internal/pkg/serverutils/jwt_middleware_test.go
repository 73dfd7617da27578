package serverutils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenStr := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "2a5c67ab-55b8-4db1-bb47-07e35df2a56f",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	userID, err := VerifyToken(tokenStr)

	require.NoError(t, err)
	assert.Equal(t, "2a5c67ab-55b8-4db1-bb47-07e35df2a56f", userID)
}

func TestVerifyTokenRejectsBadSignature(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenStr := signToken(t, "other-secret", jwt.MapClaims{"user_id": "abc"})

	_, err := VerifyToken(tokenStr)
	assert.Error(t, err)
}

func TestVerifyTokenRequiresUserIdClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenStr := signToken(t, "test-secret", jwt.MapClaims{"sub": "abc"})

	_, err := VerifyToken(tokenStr)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenStr := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "abc",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	_, err := VerifyToken(tokenStr)
	assert.Error(t, err)
}
