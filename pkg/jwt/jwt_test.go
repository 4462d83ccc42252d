package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("user-1", AccessToken, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, AccessToken, claims.TokenType)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("user-1", AccessToken, "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := GenerateToken("user-1", AccessToken, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, "test-secret")
	assert.Error(t, err)
	assert.False(t, IsTokenValid(token, "test-secret", AccessToken))
}

func TestIsTokenValid(t *testing.T) {
	token, err := GenerateToken("user-1", AccessToken, "test-secret", time.Hour)
	require.NoError(t, err)

	assert.True(t, IsTokenValid(token, "test-secret", AccessToken))
	assert.False(t, IsTokenValid("garbage", "test-secret", AccessToken))
}
