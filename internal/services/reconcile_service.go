package services

import (
	"context"

	"printshop_backend/internal/logger"
	"printshop_backend/internal/repositories"
	"printshop_backend/internal/services/dto"

	"gorm.io/gorm"
)

// ReconcileService audits and repairs attachment invariants broken by races,
// bugs or legacy data. Safe to re-run: a second pass right after a first one
// finds nothing to fix.
//
// Class A: a catalog item's custom-options row references a file. The row
// is cleared, the file untouched (it may legitimately belong elsewhere).
//
// Class B: a file's order_id points at an order with no custom items. When a
// custom item elsewhere references the file, the link is re-pointed there;
// otherwise it is cleared and the file becomes garbage-collectable again.
type ReconcileService interface {
	RunReconciliation(ctx context.Context, db *gorm.DB) (*dto.ReconcileReport, error)
}

type reconcileService struct {
	orders repositories.OrderRepository
	files  repositories.UploadedFileRepository
}

func NewReconcileService(
	orders repositories.OrderRepository,
	files repositories.UploadedFileRepository,
) ReconcileService {
	return &reconcileService{orders: orders, files: files}
}

func (s *reconcileService) RunReconciliation(ctx context.Context, db *gorm.DB) (*dto.ReconcileReport, error) {
	report := &dto.ReconcileReport{}

	// Class A runs first so class B's ownership search only sees references
	// from genuine custom items.
	if err := db.Transaction(func(tx *gorm.DB) error {
		violations, err := s.orders.FindCatalogOptionsWithFiles(tx)
		if err != nil {
			return err
		}
		for _, opts := range violations {
			logger.CtxWarn(ctx, "reconcile: catalog item carries a file",
				"custom_options_id", opts.ID, "order_item_id", opts.OrderItemID,
				"file_id", derefOrEmpty(opts.UploadedFileID))
			if err := s.orders.ClearCustomOptionsFile(tx, opts.ID); err != nil {
				return err
			}
			report.ClassAFixed++
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := db.Transaction(func(tx *gorm.DB) error {
		orphaned, err := s.files.FindLinkedToCatalogOnlyOrders(tx)
		if err != nil {
			return err
		}
		for _, file := range orphaned {
			owner, err := s.orders.FindOwningOrderForFile(tx, file.ID)
			if err != nil {
				return err
			}

			switch {
			case owner != "" && file.OrderID != nil && owner == *file.OrderID:
				// Consistent after all; nothing to do.
				continue
			case owner != "":
				logger.CtxWarn(ctx, "reconcile: re-pointing file to owning order",
					"file_id", file.ID, "from_order_id", derefOrEmpty(file.OrderID),
					"to_order_id", owner)
				if err := s.files.RepointOrder(tx, file.ID, owner); err != nil {
					return err
				}
			default:
				logger.CtxWarn(ctx, "reconcile: detaching file from catalog-only order",
					"file_id", file.ID, "order_id", derefOrEmpty(file.OrderID))
				if err := s.files.ClearOrder(tx, file.ID); err != nil {
					return err
				}
			}
			report.ClassBFixed++
		}
		return nil
	}); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "reconciliation finished",
		"class_a_fixed", report.ClassAFixed, "class_b_fixed", report.ClassBFixed)
	return report, nil
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
