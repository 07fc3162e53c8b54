package workers

import (
	"context"
	"time"

	"printshop_backend/internal/logger"
	"printshop_backend/internal/services"

	"gorm.io/gorm"
)

// CleanupWorker periodically garbage-collects stale temporary uploads.
type CleanupWorker struct {
	db        *gorm.DB
	cleanup   services.CleanupService
	retention time.Duration
	interval  time.Duration
}

func NewCleanupWorker(db *gorm.DB, cleanup services.CleanupService, retention, interval time.Duration) *CleanupWorker {
	return &CleanupWorker{
		db:        db,
		cleanup:   cleanup,
		retention: retention,
		interval:  interval,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (w *CleanupWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *CleanupWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			report, err := w.cleanup.RunGarbageCollection(ctx, w.db, w.retention)
			if err != nil {
				logger.Error("cleanup sweep failed", "error", err)
				continue
			}
			if report.Deleted > 0 || len(report.Errors) > 0 {
				logger.Info("cleanup sweep",
					"deleted", report.Deleted, "errors", len(report.Errors))
			}
		}
	}
}
