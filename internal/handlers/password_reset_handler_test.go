package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/safasahar/backend/internal/config"
	"github.com/safasahar/backend/internal/models"
	"github.com/safasahar/backend/internal/services"
	"github.com/safasahar/backend/pkg/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupResetRouter(t *testing.T) (*gin.Engine, *gorm.DB, *services.PasswordResetService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))

	cfg := config.New()
	cfg.BcryptCost = 4

	resetService := services.NewPasswordResetService(db, cfg)
	handler := NewPasswordResetHandler(resetService, services.NewAuditService(db))

	router := gin.New()
	router.POST("/auth/password-reset-request", handler.RequestReset)
	router.GET("/auth/verify-reset-token/:token", handler.VerifyToken)
	router.POST("/auth/reset-password/:token", handler.ResetWithToken)

	return router, db, resetService
}

func createResetUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	hashed, err := crypto.HashPassword("oldpassword", 4)
	require.NoError(t, err)
	user := &models.User{Username: "resident", Email: email, Password: hashed}
	require.NoError(t, db.Create(user).Error)
	return user
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestRequestResetUnknownEmailIsNotFound(t *testing.T) {
	router, _, _ := setupResetRouter(t)

	w := postJSON(router, "/auth/password-reset-request", `{"email":"nobody@example.com"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "User not found", body["error"])
}

func TestRequestResetDistinguishesPendingFromUnknown(t *testing.T) {
	router, db, _ := setupResetRouter(t)
	createResetUser(t, db, "ram@example.com")

	first := postJSON(router, "/auth/password-reset-request", `{"email":"ram@example.com"}`)
	assert.Equal(t, http.StatusOK, first.Code)

	// Re-requesting while pending still succeeds, unlike an unknown email
	second := postJSON(router, "/auth/password-reset-request", `{"email":"ram@example.com"}`)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), "already pending")

	unknown := postJSON(router, "/auth/password-reset-request", `{"email":"nobody@example.com"}`)
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

func TestResetWithTokenAcceptsShortPassword(t *testing.T) {
	router, db, resetService := setupResetRouter(t)
	user := createResetUser(t, db, "ram@example.com")

	request, _, err := resetService.RequestReset("ram@example.com")
	require.NoError(t, err)
	approved, _, err := resetService.Approve(request.ID)
	require.NoError(t, err)

	// The only constraint on the new password is that it is non-empty
	w := postJSON(router, "/auth/reset-password/"+approved.Token.String(), `{"new_password":"abc"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.User
	require.NoError(t, db.First(&updated, user.ID).Error)
	assert.True(t, crypto.CheckPassword("abc", updated.Password))
}

func TestResetWithTokenRejectsEmptyPassword(t *testing.T) {
	router, db, resetService := setupResetRouter(t)
	createResetUser(t, db, "ram@example.com")

	request, _, err := resetService.RequestReset("ram@example.com")
	require.NoError(t, err)
	approved, _, err := resetService.Approve(request.ID)
	require.NoError(t, err)

	w := postJSON(router, "/auth/reset-password/"+approved.Token.String(), `{"new_password":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
