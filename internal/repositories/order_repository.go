package repositories

import (
	"errors"
	"time"

	"printshop_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderItemNotFound = errors.New("order item not found")
)

type OrderRepository interface {
	CreateOrder(db *gorm.DB, order *models.Order) error
	CreateShippingAddress(db *gorm.DB, addr *models.OrderShippingAddress) error
	CreateItem(db *gorm.DB, item *models.OrderItem) error
	CreateCustomOptions(db *gorm.DB, opts *models.OrderCustomOptions) error

	FindByID(db *gorm.DB, id string) (*models.Order, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Order, error)
	FindItemByID(db *gorm.DB, id string) (*models.OrderItem, error)
	HasCustomItems(db *gorm.DB, orderID string) (bool, error)

	UpdateStatus(db *gorm.DB, id string, status models.OrderStatus) error
	SetPaid(db *gorm.DB, id string, result *models.OrderPaymentResult, paidAt time.Time) error
	SetDelivered(db *gorm.DB, id string, at time.Time) error
	SetTracking(db *gorm.DB, id, carrier, trackingCode string) error

	// UpsertCustomOptionsLink writes the file back-reference onto the item's
	// custom-options row, inserting the row when it does not exist yet.
	UpsertCustomOptionsLink(db *gorm.DB, orderItemID, fileID, fileURL string) error

	FindCustomOptionsByItem(db *gorm.DB, orderItemID string) (*models.OrderCustomOptions, error)

	// FindOwningOrderForFile looks up the order whose custom item references
	// the file. Empty string when no custom item anywhere references it.
	FindOwningOrderForFile(db *gorm.DB, fileID string) (string, error)

	// FindCatalogOptionsWithFiles selects custom-options rows that violate
	// the catalog-items-carry-no-files invariant.
	FindCatalogOptionsWithFiles(db *gorm.DB) ([]models.OrderCustomOptions, error)

	// ClearCustomOptionsFile removes the file reference and cached URL from
	// one custom-options row, leaving the file itself alone.
	ClearCustomOptionsFile(db *gorm.DB, optionsID string) error

	DeleteOrder(db *gorm.DB, id string) error
}

type orderRepository struct{}

func NewOrderRepository() OrderRepository {
	return &orderRepository{}
}

func (r *orderRepository) CreateOrder(db *gorm.DB, order *models.Order) error {
	// Children are inserted step by step by the creation transaction, not
	// through gorm associations, so each stage can be reported on failure.
	return db.Omit("Items", "ShippingAddress", "PaymentResult").Create(order).Error
}

func (r *orderRepository) CreateShippingAddress(db *gorm.DB, addr *models.OrderShippingAddress) error {
	return db.Create(addr).Error
}

func (r *orderRepository) CreateItem(db *gorm.DB, item *models.OrderItem) error {
	return db.Omit("CustomOptions").Create(item).Error
}

func (r *orderRepository) CreateCustomOptions(db *gorm.DB, opts *models.OrderCustomOptions) error {
	return db.Create(opts).Error
}

func (r *orderRepository) FindByID(db *gorm.DB, id string) (*models.Order, error) {
	var order models.Order
	err := db.
		Preload("Items.CustomOptions").
		Preload("ShippingAddress").
		Preload("PaymentResult").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUser(db *gorm.DB, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := db.
		Preload("Items.CustomOptions").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepository) FindItemByID(db *gorm.DB, id string) (*models.OrderItem, error) {
	var item models.OrderItem
	err := db.Preload("CustomOptions").First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *orderRepository) HasCustomItems(db *gorm.DB, orderID string) (bool, error) {
	var count int64
	err := db.Model(&models.OrderItem{}).
		Where("order_id = ? AND product_id IS NULL", orderID).
		Count(&count).Error
	return count > 0, err
}

func (r *orderRepository) UpdateStatus(db *gorm.DB, id string, status models.OrderStatus) error {
	res := db.Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) SetPaid(db *gorm.DB, id string, result *models.OrderPaymentResult, paidAt time.Time) error {
	res := db.Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"is_paid": true, "paid_at": paidAt})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	if result != nil {
		result.OrderID = id
		if err := db.Save(result).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) SetDelivered(db *gorm.DB, id string, at time.Time) error {
	res := db.Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_delivered": true,
			"delivered_at": at,
			"status":       models.OrderStatusDelivered,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) SetTracking(db *gorm.DB, id, carrier, trackingCode string) error {
	res := db.Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"carrier": carrier, "tracking_code": trackingCode})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) UpsertCustomOptionsLink(db *gorm.DB, orderItemID, fileID, fileURL string) error {
	res := db.Model(&models.OrderCustomOptions{}).
		Where("order_item_id = ?", orderItemID).
		Updates(map[string]interface{}{
			"uploaded_file_id": fileID,
			"file_url":         fileURL,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	opts := &models.OrderCustomOptions{
		OrderItemID:    orderItemID,
		UploadedFileID: &fileID,
		FileURL:        fileURL,
	}
	return db.Create(opts).Error
}

func (r *orderRepository) FindCustomOptionsByItem(db *gorm.DB, orderItemID string) (*models.OrderCustomOptions, error) {
	var opts models.OrderCustomOptions
	err := db.First(&opts, "order_item_id = ?", orderItemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &opts, nil
}

func (r *orderRepository) FindOwningOrderForFile(db *gorm.DB, fileID string) (string, error) {
	var orderID string
	err := db.Model(&models.OrderCustomOptions{}).
		Select("order_items.order_id").
		Joins("JOIN order_items ON order_items.id = order_custom_options.order_item_id").
		Where("order_custom_options.uploaded_file_id = ?", fileID).
		Where("order_items.product_id IS NULL").
		Limit(1).
		Scan(&orderID).Error
	if err != nil {
		return "", err
	}
	return orderID, nil
}

func (r *orderRepository) FindCatalogOptionsWithFiles(db *gorm.DB) ([]models.OrderCustomOptions, error) {
	var opts []models.OrderCustomOptions
	err := db.
		Joins("JOIN order_items ON order_items.id = order_custom_options.order_item_id").
		Where("order_items.product_id IS NOT NULL").
		Where("order_custom_options.uploaded_file_id IS NOT NULL").
		Find(&opts).Error
	return opts, err
}

func (r *orderRepository) ClearCustomOptionsFile(db *gorm.DB, optionsID string) error {
	return db.Model(&models.OrderCustomOptions{}).
		Where("id = ?", optionsID).
		Updates(map[string]interface{}{
			"uploaded_file_id": nil,
			"file_url":         "",
		}).Error
}

func (r *orderRepository) DeleteOrder(db *gorm.DB, id string) error {
	return db.Delete(&models.Order{}, "id = ?", id).Error
}
