package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"printshop_backend/internal/logger"
	"printshop_backend/internal/models"
	"printshop_backend/internal/repositories"
	"printshop_backend/internal/services/dto"
	"printshop_backend/internal/storage"
	"printshop_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 3D model formats the print pipeline accepts. Most arrive as
// application/octet-stream, so the extension decides.
var modelExtensions = map[string]bool{
	".stl":  true,
	".obj":  true,
	".3mf":  true,
	".step": true,
	".stp":  true,
}

type FileServiceConfig struct {
	MaxSize int64
}

// FileService handles upload intake and the user-facing file operations.
// Files enter temporary and unattached; the linking protocol, not this
// service, makes them permanent.
type FileService interface {
	Upload(ctx context.Context, db *gorm.DB, req *dto.UploadFileRequest) (*models.UploadedFile, error)
	GetFile(db *gorm.DB, id string) (*models.UploadedFile, error)
	// DeleteFile removes an unattached file (blob and rows). Attached files
	// are refused; they belong to an order.
	DeleteFile(ctx context.Context, db *gorm.DB, id string) error
	// AttachModelData stores the analyzer's measurements for a model file.
	AttachModelData(db *gorm.DB, fileID string, data *models.ModelData) error
}

type fileService struct {
	files repositories.UploadedFileRepository
	store storage.Storage
	cfg   FileServiceConfig
}

func NewFileService(files repositories.UploadedFileRepository, store storage.Storage, cfg FileServiceConfig) FileService {
	return &fileService{files: files, store: store, cfg: cfg}
}

func (s *fileService) Upload(ctx context.Context, db *gorm.DB, req *dto.UploadFileRequest) (*models.UploadedFile, error) {
	if s.cfg.MaxSize > 0 && req.Size > s.cfg.MaxSize {
		return nil, apperrors.ErrInvalidOperation("files",
			fmt.Sprintf("file exceeds maximum size of %d bytes", s.cfg.MaxSize))
	}

	// Sniff the real content type from the first bytes; the client's
	// declared type is a hint only.
	head := make([]byte, 3072)
	n, err := io.ReadFull(req.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, apperrors.InternalError(err)
	}
	head = head[:n]
	mtype := mimetype.Detect(head)
	reader := io.MultiReader(bytes.NewReader(head), req.Reader)

	ext := strings.ToLower(filepath.Ext(req.OriginalName))
	fileType := models.FileTypeImage
	if modelExtensions[ext] {
		fileType = models.FileTypeModel
	} else if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, apperrors.ErrInvalidOperation("files",
			fmt.Sprintf("unsupported file type %q", mtype.String()))
	}

	id := uuid.NewString()
	path := fmt.Sprintf("uploads/%s%s", id, ext)

	if err := s.store.Save(ctx, path, reader, mtype.String()); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageError, "files",
			"Failed to store file", http.StatusInternalServerError)
	}

	url, err := s.store.GetURL(ctx, path)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	file := &models.UploadedFile{
		BaseModel:    models.BaseModel{ID: id},
		UserID:       req.UserID,
		Temporary:    true,
		Status:       models.FileStatusPending,
		FileType:     fileType,
		OriginalName: req.OriginalName,
		Path:         path,
		URL:          url,
		MimeType:     mtype.String(),
		Size:         req.Size,
	}

	if err := s.files.Create(db, file); err != nil {
		// Best effort: do not leave an orphan blob behind a failed insert.
		if delErr := s.store.Delete(ctx, path); delErr != nil {
			logger.CtxWithError(ctx, "failed to remove blob after insert failure", delErr, "path", path)
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "file uploaded",
		"file_id", file.ID, "type", string(fileType), "size", req.Size)
	return file, nil
}

func (s *fileService) GetFile(db *gorm.DB, id string) (*models.UploadedFile, error) {
	file, err := s.files.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFileNotFound) {
			return nil, apperrors.ErrFileNotFound(id)
		}
		return nil, apperrors.InternalError(err)
	}
	return file, nil
}

func (s *fileService) DeleteFile(ctx context.Context, db *gorm.DB, id string) error {
	file, err := s.files.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFileNotFound) {
			return apperrors.ErrFileNotFound(id)
		}
		return apperrors.InternalError(err)
	}

	if file.Attached() {
		return apperrors.ErrFileAttached(id)
	}

	if err := s.store.Delete(ctx, file.Path); err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorageError, "files",
			"Failed to delete file from storage", http.StatusInternalServerError)
	}

	// Conditional delete: if the file was linked since the read above, the
	// row survives and only the blob is gone (reconciliation territory, but
	// vastly better than deleting an ordered file's row).
	rows, err := s.files.DeleteIfUnattached(db, id)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if rows == 0 {
		return apperrors.ErrFileAttached(id)
	}

	logger.CtxInfo(ctx, "file deleted", "file_id", id)
	return nil
}

func (s *fileService) AttachModelData(db *gorm.DB, fileID string, data *models.ModelData) error {
	file, err := s.files.FindByID(db, fileID)
	if err != nil {
		if errors.Is(err, repositories.ErrFileNotFound) {
			return apperrors.ErrFileNotFound(fileID)
		}
		return apperrors.InternalError(err)
	}

	if file.FileType != models.FileTypeModel {
		return apperrors.ErrInvalidOperation("files", "model data only applies to 3D model files")
	}

	data.UploadedFileID = file.ID
	if err := s.files.SaveModelData(db, data); err != nil {
		return apperrors.InternalError(err)
	}

	// Analysis done: the file is ready to be ordered.
	if file.Status == models.FileStatusPending {
		file.Status = models.FileStatusProcessed
		if err := s.files.Update(db, file); err != nil {
			return apperrors.InternalError(err)
		}
	}
	return nil
}
