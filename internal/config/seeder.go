package config

import (
	"log"

	"workclock/internal/adapters/persistence/models"
	"workclock/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedDefaultAdmin creates the initial admin account if no admin exists.
// Credentials come from ADMIN_USERNAME / ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := getEnv("ADMIN_USERNAME", "admin")
	email := getEnv("ADMIN_EMAIL", "admin@workclock.local")
	plain := getEnv("ADMIN_PASSWORD", "changeme123")

	hashed, err := password.Hash(plain)
	if err != nil {
		return err
	}

	admin := models.User{
		EmployeeID: "EMP-" + uuid.NewString()[:8],
		Username:   username,
		Email:      email,
		Password:   hashed,
		FullName:   "System Administrator",
		Role:       models.RoleAdmin,
		IsActive:   true,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded default admin account: %s", username)
	return nil
}
