package services

import (
	"context"
	"errors"

	"printshop_backend/internal/logger"
	"printshop_backend/internal/repositories"
	"printshop_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// LinkOutcome classifies the result of one linking attempt. Outcomes are
// structured results, not errors: a missing or conflicted attachment must not
// prevent an otherwise valid order from being placed.
type LinkOutcome string

const (
	LinkOutcomeLinked        LinkOutcome = "linked"
	LinkOutcomeAlreadyLinked LinkOutcome = "already-linked"
	LinkOutcomeConflict      LinkOutcome = "conflict"
	LinkOutcomeNotFound      LinkOutcome = "not-found"
)

// LinkResult reports what one LinkFile call did.
type LinkResult struct {
	Outcome     LinkOutcome `json:"outcome"`
	FileID      string      `json:"file_id"`
	OrderID     string      `json:"order_id"`
	OrderItemID string      `json:"order_item_id,omitempty"`
	FileURL     string      `json:"file_url,omitempty"`
	// Verified is false when the post-write verification still disagreed
	// after one retry. The link may be absent; reconciliation repairs it.
	Verified bool `json:"verified"`
}

// FileLinkService owns the file↔order-item association protocol.
type FileLinkService interface {
	// LinkFile idempotently attaches a file to an order and keeps the
	// item's custom-options back-reference in sync. Repeated calls with the
	// same (fileID, orderID) converge; a file owned by a different order is
	// never overwritten. An error is returned only on database failure.
	LinkFile(ctx context.Context, db *gorm.DB, fileID, orderID, orderItemID string) (*LinkResult, error)

	// ReassignFile forcibly moves a file onto an order, overwriting any
	// existing link. Explicit admin override, never called automatically.
	ReassignFile(ctx context.Context, db *gorm.DB, fileID, orderID string) error
}

type fileLinkService struct {
	files  repositories.UploadedFileRepository
	orders repositories.OrderRepository
}

func NewFileLinkService(
	files repositories.UploadedFileRepository,
	orders repositories.OrderRepository,
) FileLinkService {
	return &fileLinkService{files: files, orders: orders}
}

func (s *fileLinkService) LinkFile(ctx context.Context, db *gorm.DB, fileID, orderID, orderItemID string) (*LinkResult, error) {
	result := &LinkResult{
		FileID:      fileID,
		OrderID:     orderID,
		OrderItemID: orderItemID,
		Verified:    true,
	}

	// Step 1: conditional claim. The WHERE order_id IS NULL predicate is the
	// entire concurrency control: under concurrent duplicate submissions the
	// database lets exactly one writer through.
	rows, err := s.files.ClaimForOrder(db, fileID, orderID)
	if err != nil {
		return nil, err
	}

	if rows == 1 {
		result.Outcome = LinkOutcomeLinked
	} else {
		file, err := s.files.FindByID(db, fileID)
		if err != nil {
			if errors.Is(err, repositories.ErrFileNotFound) {
				logger.CtxWarn(ctx, "link target does not exist",
					"file_id", fileID, "order_id", orderID)
				result.Outcome = LinkOutcomeNotFound
				return result, nil
			}
			return nil, err
		}

		switch {
		case file.OrderID != nil && *file.OrderID == orderID:
			result.Outcome = LinkOutcomeAlreadyLinked
		case file.OrderID != nil:
			logger.CtxWarn(ctx, "file already owned by another order",
				"file_id", fileID, "order_id", orderID, "owner_order_id", *file.OrderID)
			result.Outcome = LinkOutcomeConflict
			return result, nil
		default:
			// Claim affected no rows yet the file reads unattached: a
			// concurrent writer released it between our two statements.
			// The verification pass below re-claims it.
			result.Outcome = LinkOutcomeLinked
		}
	}

	// Step 2: keep the custom-options back-reference in sync.
	if orderItemID != "" {
		file, err := s.files.FindByID(db, fileID)
		if err != nil {
			return nil, err
		}
		result.FileURL = file.URL
		if err := s.orders.UpsertCustomOptionsLink(db, orderItemID, fileID, file.URL); err != nil {
			return nil, err
		}
	}

	// Step 3: verification pass. Re-read, retry the claim once on mismatch.
	ok, err := verifyWithRetry(
		func() (bool, error) {
			file, err := s.files.FindByID(db, fileID)
			if err != nil {
				return false, err
			}
			return file.OrderID != nil && *file.OrderID == orderID, nil
		},
		func() error {
			_, err := s.files.ClaimForOrder(db, fileID, orderID)
			return err
		},
	)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Integrity alarm: the order stands, reconciliation fixes the link.
		result.Verified = false
		logger.CtxError(ctx, "link verification failed",
			"code", string(apperrors.CodeLinkVerificationFailed),
			"file_id", fileID, "order_id", orderID, "order_item_id", orderItemID)
	}

	return result, nil
}

func (s *fileLinkService) ReassignFile(ctx context.Context, db *gorm.DB, fileID, orderID string) error {
	order, err := s.orders.FindByID(db, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return apperrors.ErrOrderNotFound
		}
		return apperrors.InternalError(err)
	}

	file, err := s.files.FindByID(db, fileID)
	if err != nil {
		if errors.Is(err, repositories.ErrFileNotFound) {
			return apperrors.ErrFileNotFound(fileID)
		}
		return apperrors.InternalError(err)
	}

	if file.OrderID != nil && *file.OrderID != orderID {
		logger.CtxWarn(ctx, "admin reassign overwrites existing link",
			"file_id", fileID, "from_order_id", *file.OrderID, "to_order_id", orderID)
	}

	if err := s.files.ForceAssign(db, fileID, orderID); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "file reassigned", "file_id", fileID, "order_id", order.ID)
	return nil
}
