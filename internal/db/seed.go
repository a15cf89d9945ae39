package db

import (
	"errors" // Error inspection
	"fmt"    // Error formatting

	"budgetin/internal/config" // Custom package for configuration
	"budgetin/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// DefaultAdminName is used when the seed carries no display name
const DefaultAdminName = "Admin Budgetin"

// AdminSeed describes the local administrator account
type AdminSeed struct {
	Email    string // Lookup key
	Name     string // Display name
	Password string // Plain text, hashed before storing
}

// AdminSeedFromConfig builds the admin seed from the ADMIN_* settings
func AdminSeedFromConfig(cfg *config.Config) AdminSeed {
	return AdminSeed{Email: cfg.AdminEmail, Name: cfg.AdminName, Password: cfg.AdminPassword}
}

// SeedAdmin creates or refreshes the local admin account, keyed by email
func SeedAdmin(db *gorm.DB, seed AdminSeed) (*domain.User, error) {
	if seed.Email == "" || seed.Password == "" {
		return nil, fmt.Errorf("%w: admin email and password are required", domain.ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	password := string(hash)
	name := seed.Name
	if name == "" {
		name = DefaultAdminName
	}

	var admin domain.User
	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", seed.Email).First(&admin).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			admin = domain.User{Email: seed.Email, Name: name, Password: &password}
			return tx.Create(&admin).Error // New admin
		}
		if err != nil {
			return err
		}
		admin.Name = name
		admin.Password = &password
		return tx.Save(&admin).Error // Refresh name and password
	})
	if err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"user_id": admin.ID,    // Admin user ID
		"email":   admin.Email, // Admin email
	}).Info("Admin user seeded")
	return &admin, nil
}
