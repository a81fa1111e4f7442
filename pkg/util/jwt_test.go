package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateTokenPair(t *testing.T) {
	pair, err := GenerateTokenPair(42, "jinwoo", "jinwoo@example.com", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestValidateToken(t *testing.T) {
	pair, err := GenerateTokenPair(42, "jinwoo", "jinwoo@example.com", testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(pair.AccessToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "jinwoo", claims.Username)
	assert.Equal(t, "jinwoo@example.com", claims.Email)
	assert.Equal(t, "access", claims.Subject)

	refreshClaims, err := ValidateToken(pair.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.Subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	pair, err := GenerateTokenPair(1, "user", "user@example.com", testSecret, time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(pair.AccessToken, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	pair, err := GenerateTokenPair(1, "user", "user@example.com", testSecret, -time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(pair.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
