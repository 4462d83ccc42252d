package services

import (
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/safasahar/backend/internal/models"
	"github.com/safasahar/backend/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alphanumeric = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

func TestRequestResetUnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPasswordResetService(db, testConfig())

	_, _, err := svc.RequestReset("nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRequestResetIdempotentWhilePending(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewPasswordResetService(db, cfg)
	createTestUser(t, db, cfg, "ram", "ram@example.com", "oldpassword")

	first, created, err := svc.RequestReset("ram@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.ResetStatusPending, first.Status)

	// A second request while the first is pending returns the same row
	second, created, err := svc.RequestReset("ram@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.PasswordResetRequest{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRequestResetAllowedAfterDecision(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewPasswordResetService(db, cfg)
	createTestUser(t, db, cfg, "ram", "ram@example.com", "oldpassword")

	first, _, err := svc.RequestReset("ram@example.com")
	require.NoError(t, err)

	_, err = svc.Reject(first.ID)
	require.NoError(t, err)

	// Once decided, a fresh request may be opened
	second, created, err := svc.RequestReset("ram@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestApproveSetsTemporaryPassword(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewPasswordResetService(db, cfg)
	user := createTestUser(t, db, cfg, "sita", "sita@example.com", "oldpassword")

	request, _, err := svc.RequestReset("sita@example.com")
	require.NoError(t, err)

	approved, tempPassword, err := svc.Approve(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResetStatusApproved, approved.Status)
	assert.NotNil(t, approved.ApprovedAt)
	assert.Len(t, tempPassword, 12)
	assert.Regexp(t, alphanumeric, tempPassword)

	// The temporary password is live immediately; the old one is not
	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, crypto.CheckPassword(tempPassword, updated.Password))
	assert.False(t, crypto.CheckPassword("oldpassword", updated.Password))
}

func TestApproveUnknownRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPasswordResetService(db, testConfig())

	_, _, err := svc.Approve(uuid.New())
	assert.ErrorIs(t, err, ErrResetRequestNotFound)
}

func TestRejectLeavesPasswordUntouched(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewPasswordResetService(db, cfg)
	user := createTestUser(t, db, cfg, "hari", "hari@example.com", "oldpassword")

	request, _, err := svc.RequestReset("hari@example.com")
	require.NoError(t, err)

	rejected, err := svc.Reject(request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResetStatusRejected, rejected.Status)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, crypto.CheckPassword("oldpassword", updated.Password))
}

func TestVerifyToken(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewPasswordResetService(db, cfg)
	createTestUser(t, db, cfg, "gita", "gita@example.com", "oldpassword")

	request, _, err := svc.RequestReset("gita@example.com")
	require.NoError(t, err)

	// Pending requests are not redeemable
	valid, err := svc.VerifyToken(request.Token)
	require.NoError(t, err)
	assert.False(t, valid)

	approved, _, err := svc.Approve(request.ID)
	require.NoError(t, err)

	valid, err = svc.VerifyToken(approved.Token)
	require.NoError(t, err)
	assert.True(t, valid)

	// Unknown tokens are invalid
	valid, err = svc.VerifyToken(uuid.New())
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestResetWithTokenSingleUse(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewPasswordResetService(db, cfg)
	user := createTestUser(t, db, cfg, "shyam", "shyam@example.com", "oldpassword")

	request, _, err := svc.RequestReset("shyam@example.com")
	require.NoError(t, err)
	approved, _, err := svc.Approve(request.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ResetWithToken(approved.Token, "mychosenpassword"))

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, crypto.CheckPassword("mychosenpassword", updated.Password))

	// The token is consumed; a second redemption fails and the password
	// stays the user-chosen one
	err = svc.ResetWithToken(approved.Token, "attackerpassword")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, crypto.CheckPassword("mychosenpassword", updated.Password))

	valid, err := svc.VerifyToken(approved.Token)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestResetWithTokenRejectsUnapproved(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	svc := NewPasswordResetService(db, cfg)
	createTestUser(t, db, cfg, "maya", "maya@example.com", "oldpassword")

	request, _, err := svc.RequestReset("maya@example.com")
	require.NoError(t, err)

	err = svc.ResetWithToken(request.Token, "newpassword")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)

	err = svc.ResetWithToken(uuid.New(), "newpassword")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
}
