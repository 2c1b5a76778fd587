package services

import (
	"testing"
	"time"

	"workclock/internal/adapters/persistence/models"
	"workclock/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	return db
}

// newTestConfig returns a config suitable for service tests
func newTestConfig() *config.Config {
	return &config.Config{
		AppMode:     "dev",
		Port:        "0",
		Propagation: config.PropagationBestEffort,
		JWT: config.JWTConfig{
			Secret:           "test_secret",
			RefreshSecret:    "test_refresh_secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
}

// seedUser inserts a user and returns it
func seedUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()

	user := &models.User{
		EmployeeID: "EMP-" + username,
		Username:   username,
		Email:      username + "@example.com",
		Password:   "x",
		FullName:   username,
		Role:       role,
		IsActive:   true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// at builds a timestamp on a fixed work day
func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 2, hour, min, 0, 0, time.UTC)
}
