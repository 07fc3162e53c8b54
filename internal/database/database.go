package database

import (
	"fmt"

	"printshop_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the postgres pool. The handle is owned by the caller and
// passed down explicitly; nothing in this package keeps global state.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// AutoMigrate declares the schema. Cascade rules ride on the gorm constraint
// tags: order children cascade with the order, custom options with the item,
// model data with the file; uploaded_files.order_id is ON DELETE SET NULL.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCustomOptions{},
		&models.OrderShippingAddress{},
		&models.OrderPaymentResult{},
		&models.UploadedFile{},
		&models.ModelData{},
	)
}
