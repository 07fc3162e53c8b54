package services

import (
	"context"
	"fmt"
	"time"

	"printshop_backend/internal/logger"
	"printshop_backend/internal/repositories"
	"printshop_backend/internal/services/dto"
	"printshop_backend/internal/storage"

	"gorm.io/gorm"
)

// CleanupService deletes stale temporary uploads that never became part of an
// order: model data and row conditionally, then the blob once the row delete
// won. Every step re-checks that the file is still unattached, so a file
// linked mid-sweep keeps its row and its binary.
type CleanupService interface {
	RunGarbageCollection(ctx context.Context, db *gorm.DB, retention time.Duration) (*dto.CleanupReport, error)
}

type cleanupService struct {
	files repositories.UploadedFileRepository
	store storage.Storage
}

func NewCleanupService(files repositories.UploadedFileRepository, store storage.Storage) CleanupService {
	return &cleanupService{files: files, store: store}
}

func (s *cleanupService) RunGarbageCollection(ctx context.Context, db *gorm.DB, retention time.Duration) (*dto.CleanupReport, error) {
	if retention <= 0 {
		retention = time.Hour
	}
	cutoff := time.Now().Add(-retention)

	candidates, err := s.files.FindStaleTemporary(db, cutoff)
	if err != nil {
		return nil, err
	}

	report := &dto.CleanupReport{Scanned: len(candidates), Errors: []string{}}

	for _, file := range candidates {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		// One failed file never aborts the sweep.
		deleted, err := s.deleteFile(ctx, db, file.ID, file.Path)
		if err != nil {
			logger.CtxWithError(ctx, "gc: failed to delete file", err, "file_id", file.ID)
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", file.ID, err))
			continue
		}
		if deleted {
			report.Deleted++
		}
	}

	logger.CtxInfo(ctx, "gc sweep finished",
		"scanned", report.Scanned, "deleted", report.Deleted, "errors", len(report.Errors))
	return report, nil
}

// deleteFile removes one candidate. Every step re-checks attachment at
// delete time: the conditional row delete decides, and the blob goes only
// once the row is gone, so a file linked between selection and deletion keeps
// both its row and its binary. Reports whether the file was fully removed.
func (s *cleanupService) deleteFile(ctx context.Context, db *gorm.DB, fileID, path string) (bool, error) {
	if _, err := s.files.DeleteModelDataIfUnattached(db, fileID); err != nil {
		return false, fmt.Errorf("delete model data: %w", err)
	}

	rows, err := s.files.DeleteIfUnattached(db, fileID)
	if err != nil {
		return false, fmt.Errorf("delete row: %w", err)
	}
	if rows == 0 {
		// Linked to an order between selection and deletion; leave it be.
		logger.CtxInfo(ctx, "gc: file linked mid-sweep, skipped", "file_id", fileID)
		return false, nil
	}

	// The row delete won, so nothing can link the file anymore. A failure
	// here strands only the blob, never an ordered file's data.
	if err := s.store.Delete(ctx, path); err != nil {
		return false, fmt.Errorf("delete blob: %w", err)
	}
	return true, nil
}
