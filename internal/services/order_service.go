package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"printshop_backend/internal/logger"
	"printshop_backend/internal/models"
	"printshop_backend/internal/notifier"
	"printshop_backend/internal/repositories"
	"printshop_backend/internal/services/dto"
	"printshop_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type OrderService interface {
	// CreateOrder writes the whole order graph (order, shipping address,
	// items, custom options, file links) in one transaction. Either all
	// rows commit or none do.
	CreateOrder(ctx context.Context, db *gorm.DB, req *dto.CreateOrderRequest) (*models.Order, error)

	GetOrder(db *gorm.DB, id string) (*models.Order, error)
	ListByUser(db *gorm.DB, userID string) ([]models.Order, error)

	UpdateStatus(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateOrderStatusRequest) (*models.Order, error)
	MarkPaid(ctx context.Context, db *gorm.DB, id string, result *models.OrderPaymentResult) error
	MarkDelivered(ctx context.Context, db *gorm.DB, id string) error
}

type orderService struct {
	orders   repositories.OrderRepository
	files    repositories.UploadedFileRepository
	links    FileLinkService
	notifier notifier.Notifier
}

func NewOrderService(
	orders repositories.OrderRepository,
	files repositories.UploadedFileRepository,
	links FileLinkService,
	n notifier.Notifier,
) OrderService {
	return &orderService{
		orders:   orders,
		files:    files,
		links:    links,
		notifier: n,
	}
}

// catalogProductID normalizes the client's product reference: nil, empty, and
// client-side placeholder tokens ("custom-1699…") all mean a custom item and
// are stored as NULL.
func catalogProductID(ref *string) *string {
	if ref == nil || *ref == "" {
		return nil
	}
	if strings.HasPrefix(*ref, "custom-") {
		return nil
	}
	return ref
}

func (s *orderService) CreateOrder(ctx context.Context, db *gorm.DB, req *dto.CreateOrderRequest) (*models.Order, error) {
	var (
		orderID     string
		stage       string
		linkResults []*LinkResult
	)

	txErr := db.Transaction(func(tx *gorm.DB) error {
		order := &models.Order{
			UserID:        req.UserID,
			PaymentMethod: req.PaymentMethod,
			ItemsPrice:    req.ItemsPrice,
			TaxPrice:      req.TaxPrice,
			ShippingPrice: req.ShippingPrice,
			TotalPrice:    req.TotalPrice,
			Status:        models.OrderStatusPending,
		}

		stage = "insert order"
		if err := s.orders.CreateOrder(tx, order); err != nil {
			return err
		}
		orderID = order.ID

		if req.ShippingAddress != nil {
			stage = "insert shipping address"
			addr := &models.OrderShippingAddress{
				OrderID:    order.ID,
				FullName:   req.ShippingAddress.FullName,
				Address:    req.ShippingAddress.Address,
				City:       req.ShippingAddress.City,
				PostalCode: req.ShippingAddress.PostalCode,
				Country:    req.ShippingAddress.Country,
				Phone:      req.ShippingAddress.Phone,
				Email:      req.ShippingAddress.Email,
			}
			if err := s.orders.CreateShippingAddress(tx, addr); err != nil {
				return err
			}
		}

		for i, in := range req.Items {
			stage = fmt.Sprintf("insert order item %d", i)

			productID := catalogProductID(in.ProductID)
			item := &models.OrderItem{
				OrderID:   order.ID,
				ProductID: productID,
				Name:      in.Name,
				Quantity:  in.Quantity,
				UnitPrice: in.UnitPrice,
				ImageURL:  in.ImageURL,
			}
			if err := s.orders.CreateItem(tx, item); err != nil {
				return err
			}

			if in.CustomOptions == nil {
				continue
			}

			if productID != nil {
				// Catalog item: informational fields only, never a file.
				stage = fmt.Sprintf("insert custom options %d", i)
				opts := buildCustomOptions(item.ID, in.CustomOptions)
				opts.UploadedFileID = nil
				opts.FileURL = ""
				if err := s.orders.CreateCustomOptions(tx, opts); err != nil {
					return err
				}
				continue
			}

			// Custom item: resolve the authoritative file URL from the file
			// row; never trust the client-supplied URL when an id is given.
			stage = fmt.Sprintf("insert custom options %d", i)
			opts := buildCustomOptions(item.ID, in.CustomOptions)

			var fileID string
			if in.CustomOptions.UploadedFileID != nil && *in.CustomOptions.UploadedFileID != "" {
				fileID = *in.CustomOptions.UploadedFileID
				file, err := s.files.FindByID(tx, fileID)
				switch {
				case errors.Is(err, repositories.ErrFileNotFound):
					logger.CtxWarn(ctx, "order references missing uploaded file",
						"file_id", fileID, "order_id", order.ID)
					fileID = ""
					opts.UploadedFileID = nil
					opts.FileURL = ""
				case err != nil:
					return err
				default:
					opts.FileURL = file.URL
				}
			}

			if err := s.orders.CreateCustomOptions(tx, opts); err != nil {
				return err
			}

			if fileID != "" {
				stage = fmt.Sprintf("link file for item %d", i)
				res, err := s.links.LinkFile(ctx, tx, fileID, order.ID, item.ID)
				if err != nil {
					return err
				}
				linkResults = append(linkResults, res)
				if res.Outcome == LinkOutcomeConflict || res.Outcome == LinkOutcomeNotFound {
					// Non-fatal: the order stands without this attachment,
					// but its options row must not claim the file.
					if err := s.orders.ClearCustomOptionsFile(tx, opts.ID); err != nil {
						return err
					}
				}
			}
		}

		return nil
	})

	if txErr != nil {
		logger.CtxWithError(ctx, "order creation rolled back", txErr, "stage", stage)
		return nil, apperrors.ErrOrderCreationFailed(txErr, stage)
	}

	order, err := s.orders.FindByID(db, orderID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	for _, res := range linkResults {
		logger.CtxInfo(ctx, "file link result",
			"order_id", orderID, "file_id", res.FileID, "outcome", string(res.Outcome))
	}

	// Post-commit, fire-and-forget: a notification failure never affects a
	// committed order.
	s.notifier.OrderCreated(ctx, order)

	return order, nil
}

func buildCustomOptions(orderItemID string, in *dto.CustomOptionsInput) *models.OrderCustomOptions {
	return &models.OrderCustomOptions{
		OrderItemID:    orderItemID,
		Type:           in.Type,
		Material:       in.Material,
		Color:          in.Color,
		Quality:        in.Quality,
		InfillPercent:  in.InfillPercent,
		Notes:          in.Notes,
		FileURL:        in.FileURL,
		UploadedFileID: in.UploadedFileID,
	}
}

func (s *orderService) GetOrder(db *gorm.DB, id string) (*models.Order, error) {
	order, err := s.orders.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return order, nil
}

func (s *orderService) ListByUser(db *gorm.DB, userID string) ([]models.Order, error) {
	orders, err := s.orders.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, db *gorm.DB, id string, req *dto.UpdateOrderStatusRequest) (*models.Order, error) {
	status := models.OrderStatus(req.Status)
	if !models.ValidOrderStatus(status) {
		return nil, apperrors.ErrInvalidOrderStatus
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.orders.UpdateStatus(tx, id, status); err != nil {
			return err
		}
		if req.Carrier != "" || req.TrackingCode != "" {
			if err := s.orders.SetTracking(tx, id, req.Carrier, req.TrackingCode); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return nil, apperrors.ErrOrderNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	order, err := s.orders.FindByID(db, id)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifier.OrderStatusChanged(ctx, order)
	return order, nil
}

func (s *orderService) MarkPaid(ctx context.Context, db *gorm.DB, id string, result *models.OrderPaymentResult) error {
	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.orders.SetPaid(tx, id, result, now); err != nil {
			return err
		}
		return s.orders.UpdateStatus(tx, id, models.OrderStatusProcessing)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return apperrors.ErrOrderNotFound
		}
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "order marked paid", "order_id", id)
	return nil
}

func (s *orderService) MarkDelivered(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.orders.SetDelivered(db, id, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrOrderNotFound) {
			return apperrors.ErrOrderNotFound
		}
		return apperrors.InternalError(err)
	}

	order, err := s.orders.FindByID(db, id)
	if err != nil {
		return apperrors.InternalError(err)
	}

	s.notifier.OrderStatusChanged(ctx, order)
	return nil
}
