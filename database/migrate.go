package database

import (
	"fmt"

	"donation_backend/internal/config"
	"donation_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm opens GORM with the DSN from config. TranslateError is on so
// unique violations surface as gorm.ErrDuplicatedKey across drivers.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate migrates the donation schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.DonationRecord{})
}
