package models

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is the order header. Prices are set by the caller at creation and are
// immutable afterwards; only status/tracking fields change through the
// explicit update operations.
type Order struct {
	BaseModel
	UserID        *string     `gorm:"type:uuid;index" json:"user_id"` // nil for guest checkout
	PaymentMethod string      `gorm:"not null" json:"payment_method"`
	ItemsPrice    float64     `json:"items_price"`
	TaxPrice      float64     `json:"tax_price"`
	ShippingPrice float64     `json:"shipping_price"`
	TotalPrice    float64     `json:"total_price"`
	Status        OrderStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	IsPaid        bool        `gorm:"default:false" json:"is_paid"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
	IsDelivered   bool        `gorm:"default:false" json:"is_delivered"`
	DeliveredAt   *time.Time  `json:"delivered_at,omitempty"`
	Carrier       string      `json:"carrier,omitempty"`
	TrackingCode  string      `json:"tracking_code,omitempty"`

	Items           []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	ShippingAddress *OrderShippingAddress `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"shipping_address,omitempty"`
	PaymentResult   *OrderPaymentResult   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payment_result,omitempty"`
}

// OrderItem is one order line. ProductID == nil marks a custom (made-to-order)
// item; only custom items may carry a design-file attachment.
type OrderItem struct {
	BaseModel
	OrderID   string  `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID *string `gorm:"type:uuid;index" json:"product_id"`
	Name      string  `gorm:"not null" json:"name"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unit_price"`
	ImageURL  string  `json:"image_url,omitempty"`

	CustomOptions *OrderCustomOptions `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"custom_options,omitempty"`
}

// IsCustom reports whether the line is a custom item.
func (i *OrderItem) IsCustom() bool {
	return i.ProductID == nil
}

// OrderCustomOptions holds print configuration for a custom item. FileURL is a
// denormalized copy of the attached file's URL; UploadedFileID is the
// authoritative reference.
type OrderCustomOptions struct {
	BaseModel
	OrderItemID    string  `gorm:"type:uuid;not null;uniqueIndex" json:"order_item_id"`
	Type           string  `json:"type,omitempty"` // "3d_print", "engraving", ...
	Material       string  `json:"material,omitempty"`
	Color          string  `json:"color,omitempty"`
	Quality        string  `json:"quality,omitempty"`
	InfillPercent  int     `json:"infill_percent,omitempty"`
	Notes          string  `json:"notes,omitempty"`
	FileURL        string  `json:"file_url,omitempty"`
	UploadedFileID *string `gorm:"type:uuid;index" json:"uploaded_file_id"`
}

type OrderShippingAddress struct {
	BaseModel
	OrderID    string `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	FullName   string `gorm:"not null" json:"full_name"`
	Address    string `gorm:"not null" json:"address"`
	City       string `gorm:"not null" json:"city"`
	PostalCode string `gorm:"not null" json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
	Email      string `json:"email,omitempty"`
}

// OrderPaymentResult records the payment gateway's outcome, written by the
// payment-status flow after capture.
type OrderPaymentResult struct {
	BaseModel
	OrderID   string     `gorm:"type:uuid;not null;uniqueIndex" json:"order_id"`
	Provider  string     `json:"provider"`
	Reference string     `json:"reference"`
	Status    string     `json:"status"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}
