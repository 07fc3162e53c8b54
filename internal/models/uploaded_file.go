package models

import (
	"gorm.io/datatypes"
)

type FileStatus string

const (
	FileStatusPending   FileStatus = "pending"
	FileStatusProcessed FileStatus = "processed"
	FileStatusOrdered   FileStatus = "ordered"
	FileStatusError     FileStatus = "error"
)

type FileType string

const (
	FileTypeModel FileType = "model" // 3D model (stl, 3mf, obj)
	FileTypeImage FileType = "image"
)

// UploadedFile is a customer design upload. It starts temporary and
// unattached; the linking protocol attaches it to exactly one order and flips
// Temporary off. Temporary == true implies OrderID == nil.
type UploadedFile struct {
	BaseModel
	UserID             *string        `gorm:"type:uuid;index" json:"user_id"`
	OrderID            *string        `gorm:"type:uuid;index" json:"order_id"`
	Temporary          bool           `gorm:"default:true;index" json:"temporary"`
	ProcessingComplete bool           `gorm:"default:false" json:"processing_complete"`
	Status             FileStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`
	FileType           FileType       `gorm:"type:varchar(20);not null" json:"file_type"`
	OriginalName       string         `json:"original_name"`
	Path               string         `gorm:"not null" json:"-"`
	URL                string         `json:"url"`
	MimeType           string         `json:"mime_type"`
	Size               int64          `json:"size"`
	Metadata           datatypes.JSON `json:"metadata,omitempty"`

	// Order association constraint; the order's deletion orphans the file
	// rather than deleting it, so uploads survive order cleanup.
	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:SET NULL" json:"-"`

	ModelData *ModelData `gorm:"foreignKey:UploadedFileID;constraint:OnDelete:CASCADE" json:"model_data,omitempty"`
}

// Attached reports whether the file belongs to an order.
func (f *UploadedFile) Attached() bool {
	return f.OrderID != nil
}

// ModelData is the volumetric analysis of a 3D-model upload, produced by the
// slicer pipeline after upload.
type ModelData struct {
	BaseModel
	UploadedFileID   string  `gorm:"type:uuid;not null;uniqueIndex" json:"uploaded_file_id"`
	VolumeCm3        float64 `json:"volume_cm3"`
	WeightGrams      float64 `json:"weight_grams"`
	DimXMm           float64 `json:"dim_x_mm"`
	DimYMm           float64 `json:"dim_y_mm"`
	DimZMm           float64 `json:"dim_z_mm"`
	PrintTimeMinutes int     `json:"print_time_minutes"`
}
