package workers

import (
	"context"
	"time"

	"printshop_backend/internal/logger"
	"printshop_backend/internal/services"

	"gorm.io/gorm"
)

// ReconcileWorker periodically audits and repairs attachment invariants.
type ReconcileWorker struct {
	db        *gorm.DB
	reconcile services.ReconcileService
	interval  time.Duration
}

func NewReconcileWorker(db *gorm.DB, reconcile services.ReconcileService, interval time.Duration) *ReconcileWorker {
	return &ReconcileWorker{
		db:        db,
		reconcile: reconcile,
		interval:  interval,
	}
}

// Start runs the audit loop until ctx is cancelled.
func (w *ReconcileWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *ReconcileWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reconcile worker stopped")
			return
		case <-ticker.C:
			report, err := w.reconcile.RunReconciliation(ctx, w.db)
			if err != nil {
				logger.Error("reconciliation failed", "error", err)
				continue
			}
			if report.ClassAFixed > 0 || report.ClassBFixed > 0 {
				logger.Warn("reconciliation repaired invariant violations",
					"class_a_fixed", report.ClassAFixed, "class_b_fixed", report.ClassBFixed)
			}
		}
	}
}
