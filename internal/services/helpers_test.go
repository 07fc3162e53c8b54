package services_test

import (
	"testing"
	"time"

	"printshop_backend/internal/models"
	"printshop_backend/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func ptr(s string) *string { return &s }

func seedFile(t *testing.T, tx *gorm.DB, mutate ...func(*models.UploadedFile)) *models.UploadedFile {
	t.Helper()
	file := &models.UploadedFile{
		Temporary:    true,
		Status:       models.FileStatusProcessed,
		FileType:     models.FileTypeModel,
		OriginalName: "bracket.stl",
		Path:         "uploads/" + uuid.NewString() + ".stl",
		URL:          "http://localhost/files/" + uuid.NewString() + ".stl",
		MimeType:     "model/stl",
		Size:         2048,
	}
	for _, m := range mutate {
		m(file)
	}
	require.NoError(t, tx.Create(file).Error)
	return file
}

// backdateFile moves a row's creation time into the past. An update avoids the
// zero-value/default interplay of writing timestamps at insert.
func backdateFile(t *testing.T, tx *gorm.DB, fileID string, age time.Duration) {
	t.Helper()
	err := tx.Model(&models.UploadedFile{}).
		Where("id = ?", fileID).
		Update("created_at", time.Now().Add(-age)).Error
	require.NoError(t, err)
}

func seedOrder(t *testing.T, tx *gorm.DB) *models.Order {
	t.Helper()
	order := &models.Order{
		PaymentMethod: "card",
		ItemsPrice:    40,
		TaxPrice:      5,
		ShippingPrice: 5,
		TotalPrice:    50,
		Status:        models.OrderStatusPending,
	}
	require.NoError(t, tx.Omit("Items", "ShippingAddress", "PaymentResult").Create(order).Error)
	return order
}

// seedItem creates one order line; productID nil makes it a custom item.
func seedItem(t *testing.T, tx *gorm.DB, orderID string, productID *string) *models.OrderItem {
	t.Helper()
	item := &models.OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		Name:      "test item",
		Quantity:  1,
		UnitPrice: 20,
	}
	require.NoError(t, tx.Omit("CustomOptions").Create(item).Error)
	return item
}

func claimFile(t *testing.T, tx *gorm.DB, fileID, orderID string) {
	t.Helper()
	rows, err := repositories.NewUploadedFileRepository().ClaimForOrder(tx, fileID, orderID)
	require.NoError(t, err)
	require.EqualValues(t, 1, rows)
}

func reloadFile(t *testing.T, tx *gorm.DB, fileID string) *models.UploadedFile {
	t.Helper()
	file, err := repositories.NewUploadedFileRepository().FindByID(tx, fileID)
	require.NoError(t, err)
	return file
}
