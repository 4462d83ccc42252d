package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/safasahar/backend/internal/config"
	"github.com/safasahar/backend/internal/models"
	"github.com/safasahar/backend/pkg/crypto"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database and runs migrations.
// Each test gets its own named database so parallel tests cannot see
// each other's rows.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps the in-memory database alive for the
	// whole test
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(db))
	return db
}

func testConfig() *config.Config {
	cfg := config.New()
	// Minimum bcrypt cost keeps the suite fast
	cfg.BcryptCost = 4
	return cfg
}

func createTestUser(t *testing.T, db *gorm.DB, cfg *config.Config, username, email, password string) *models.User {
	t.Helper()

	hashed, err := crypto.HashPassword(password, cfg.BcryptCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestSpecialRequest(t *testing.T, db *gorm.DB, email string) *models.SpecialRequest {
	t.Helper()

	request := &models.SpecialRequest{
		Name:          "Test Resident",
		Email:         email,
		Address:       "Ward 5, Main Street",
		Reason:        "Construction debris",
		PreferredDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		PreferredTime: "10:00",
		Status:        "Pending",
	}
	require.NoError(t, db.Create(request).Error)
	return request
}
