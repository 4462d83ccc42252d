package services

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// unreachableRedis returns a client pointing nowhere. The auth service
// degrades gracefully when Redis is down, so token validation still
// works without it.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func newAuthService(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return NewAuthService(db, unreachableRedis(), testConfig()), db
}

func TestSignupAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	token, user, err := svc.Signup("ram", "ram@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "ram", user.Username)
	assert.False(t, user.IsAdmin)
	assert.True(t, user.IsActive)

	loginToken, loggedIn, err := svc.Login("ram@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, loginToken)
	assert.Equal(t, user.ID, loggedIn.ID)
}

func TestSignupDuplicate(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Signup("ram", "ram@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Signup("ram", "other@example.com", "password123")
	assert.EqualError(t, err, "username already taken")

	_, _, err = svc.Signup("other", "ram@example.com", "password123")
	assert.EqualError(t, err, "email already registered")
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, err := svc.Signup("ram", "ram@example.com", "password123")
	require.NoError(t, err)

	// Wrong password and unknown email produce the same error
	_, _, err = svc.Login("ram@example.com", "wrongpassword")
	assert.EqualError(t, err, "invalid credentials")

	_, _, err = svc.Login("nobody@example.com", "password123")
	assert.EqualError(t, err, "invalid credentials")
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, db := newAuthService(t)

	_, user, err := svc.Signup("ram", "ram@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, _, err = svc.Login("ram@example.com", "password123")
	assert.EqualError(t, err, "account is deactivated")
}

func TestValidateAccessToken(t *testing.T) {
	svc, _ := newAuthService(t)

	token, user, err := svc.Signup("ram", "ram@example.com", "password123")
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)

	_, err = svc.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}
