package dto

// CreateOrderRequest is the full order-creation payload. Totals are computed
// by the caller (cart/pricing layer) and stored as-is.
type CreateOrderRequest struct {
	UserID        *string `json:"user_id"`
	PaymentMethod string  `json:"payment_method" binding:"required"`

	ItemsPrice    float64 `json:"items_price"`
	TaxPrice      float64 `json:"tax_price"`
	ShippingPrice float64 `json:"shipping_price"`
	TotalPrice    float64 `json:"total_price" binding:"required"`

	Items           []OrderItemInput      `json:"items" binding:"required,min=1,dive"`
	ShippingAddress *ShippingAddressInput `json:"shipping_address"`
}

// OrderItemInput is one line of the order. ProductID may be nil or a
// client-side placeholder ("custom-…") for made-to-order items.
type OrderItemInput struct {
	ProductID     *string             `json:"product_id"`
	Name          string              `json:"name" binding:"required"`
	Quantity      int                 `json:"quantity" binding:"required,min=1"`
	UnitPrice     float64             `json:"unit_price"`
	ImageURL      string              `json:"image_url"`
	CustomOptions *CustomOptionsInput `json:"custom_options"`
}

// CustomOptionsInput carries print configuration for a custom item. FileURL
// is only a client hint; when UploadedFileID is set, the stored URL comes
// from the file row.
type CustomOptionsInput struct {
	Type           string  `json:"type"`
	Material       string  `json:"material"`
	Color          string  `json:"color"`
	Quality        string  `json:"quality"`
	InfillPercent  int     `json:"infill_percent"`
	Notes          string  `json:"notes"`
	FileURL        string  `json:"file_url"`
	UploadedFileID *string `json:"uploaded_file_id"`
}

type ShippingAddressInput struct {
	FullName   string `json:"full_name" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

// UpdateOrderStatusRequest updates status and optionally tracking fields.
type UpdateOrderStatusRequest struct {
	Status       string `json:"status" binding:"required"`
	Carrier      string `json:"carrier"`
	TrackingCode string `json:"tracking_code"`
}
