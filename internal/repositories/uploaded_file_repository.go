package repositories

import (
	"errors"
	"time"

	"printshop_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrFileNotFound = errors.New("uploaded file not found")
)

type UploadedFileRepository interface {
	Create(db *gorm.DB, file *models.UploadedFile) error
	FindByID(db *gorm.DB, id string) (*models.UploadedFile, error)
	FindByUser(db *gorm.DB, userID string) ([]models.UploadedFile, error)
	Update(db *gorm.DB, file *models.UploadedFile) error
	SaveModelData(db *gorm.DB, data *models.ModelData) error

	// ClaimForOrder performs the single conditional update that implements
	// first-writer-wins: SET order_id, temporary=false,
	// processing_complete=true WHERE id = ? AND order_id IS NULL.
	// Returns the number of rows affected (0 or 1).
	ClaimForOrder(db *gorm.DB, fileID, orderID string) (int64, error)

	// ForceAssign overwrites an existing link unconditionally. Admin path
	// only; the automatic linking protocol never calls it.
	ForceAssign(db *gorm.DB, fileID, orderID string) error

	// RepointOrder moves a link from whatever order it currently references
	// to orderID. Used by reconciliation class B repair.
	RepointOrder(db *gorm.DB, fileID, orderID string) error

	// ClearOrder detaches a file and marks it temporary again, making it
	// eligible for garbage collection.
	ClearOrder(db *gorm.DB, fileID string) error

	// FindStaleTemporary selects garbage-collection candidates: temporary,
	// unattached and created before cutoff.
	FindStaleTemporary(db *gorm.DB, cutoff time.Time) ([]models.UploadedFile, error)

	// FindLinkedToCatalogOnlyOrders selects files whose order contains no
	// custom item, a state no legitimate link produces.
	FindLinkedToCatalogOnlyOrders(db *gorm.DB) ([]models.UploadedFile, error)

	// DeleteModelDataIfUnattached and DeleteIfUnattached re-check
	// order_id IS NULL at delete time, so a file linked between selection
	// and deletion survives the sweep.
	DeleteModelDataIfUnattached(db *gorm.DB, fileID string) (int64, error)
	DeleteIfUnattached(db *gorm.DB, fileID string) (int64, error)

	Delete(db *gorm.DB, id string) error
}

type uploadedFileRepository struct{}

func NewUploadedFileRepository() UploadedFileRepository {
	return &uploadedFileRepository{}
}

func (r *uploadedFileRepository) Create(db *gorm.DB, file *models.UploadedFile) error {
	return db.Create(file).Error
}

func (r *uploadedFileRepository) FindByID(db *gorm.DB, id string) (*models.UploadedFile, error) {
	var file models.UploadedFile
	err := db.Preload("ModelData").First(&file, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *uploadedFileRepository) FindByUser(db *gorm.DB, userID string) ([]models.UploadedFile, error) {
	var files []models.UploadedFile
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&files).Error
	return files, err
}

func (r *uploadedFileRepository) Update(db *gorm.DB, file *models.UploadedFile) error {
	return db.Save(file).Error
}

func (r *uploadedFileRepository) SaveModelData(db *gorm.DB, data *models.ModelData) error {
	return db.Save(data).Error
}

func (r *uploadedFileRepository) ClaimForOrder(db *gorm.DB, fileID, orderID string) (int64, error) {
	res := db.Model(&models.UploadedFile{}).
		Where("id = ? AND order_id IS NULL", fileID).
		Updates(map[string]interface{}{
			"order_id":            orderID,
			"temporary":           false,
			"processing_complete": true,
			"status":              models.FileStatusOrdered,
		})
	return res.RowsAffected, res.Error
}

func (r *uploadedFileRepository) ForceAssign(db *gorm.DB, fileID, orderID string) error {
	res := db.Model(&models.UploadedFile{}).
		Where("id = ?", fileID).
		Updates(map[string]interface{}{
			"order_id":            orderID,
			"temporary":           false,
			"processing_complete": true,
			"status":              models.FileStatusOrdered,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFileNotFound
	}
	return nil
}

func (r *uploadedFileRepository) RepointOrder(db *gorm.DB, fileID, orderID string) error {
	return db.Model(&models.UploadedFile{}).
		Where("id = ?", fileID).
		Updates(map[string]interface{}{
			"order_id":  orderID,
			"temporary": false,
		}).Error
}

func (r *uploadedFileRepository) ClearOrder(db *gorm.DB, fileID string) error {
	return db.Model(&models.UploadedFile{}).
		Where("id = ?", fileID).
		Updates(map[string]interface{}{
			"order_id":  nil,
			"temporary": true,
			"status":    models.FileStatusProcessed,
		}).Error
}

func (r *uploadedFileRepository) FindStaleTemporary(db *gorm.DB, cutoff time.Time) ([]models.UploadedFile, error) {
	var files []models.UploadedFile
	err := db.
		Where("temporary = ? AND order_id IS NULL AND created_at < ?", true, cutoff).
		Order("created_at ASC").
		Find(&files).Error
	return files, err
}

func (r *uploadedFileRepository) FindLinkedToCatalogOnlyOrders(db *gorm.DB) ([]models.UploadedFile, error) {
	var files []models.UploadedFile
	err := db.
		Where("order_id IS NOT NULL").
		Where("NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = uploaded_files.order_id AND oi.product_id IS NULL)").
		Find(&files).Error
	return files, err
}

func (r *uploadedFileRepository) DeleteModelDataIfUnattached(db *gorm.DB, fileID string) (int64, error) {
	res := db.
		Where("uploaded_file_id = ?", fileID).
		Where("EXISTS (SELECT 1 FROM uploaded_files f WHERE f.id = ? AND f.order_id IS NULL)", fileID).
		Delete(&models.ModelData{})
	return res.RowsAffected, res.Error
}

func (r *uploadedFileRepository) DeleteIfUnattached(db *gorm.DB, fileID string) (int64, error) {
	res := db.
		Where("id = ? AND order_id IS NULL AND temporary = ?", fileID, true).
		Delete(&models.UploadedFile{})
	return res.RowsAffected, res.Error
}

func (r *uploadedFileRepository) Delete(db *gorm.DB, id string) error {
	return db.Delete(&models.UploadedFile{}, "id = ?", id).Error
}
