package database

import (
	"fmt"

	"rupeestream_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей.
func AutoMigrate(db *gorm.DB) error {
	// uuid_generate_v4() для PK
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Task{},
		&models.TaskCompletion{},
		&models.Earning{},
		&models.Referral{},
		&models.PayoutRequest{},
		&models.PaymentOrder{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("automigrate failed: %w", err)
	}

	return nil
}
