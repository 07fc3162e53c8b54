package notifier

import (
	"context"

	"printshop_backend/internal/models"
)

// Notifier sends customer-facing notifications. Implementations are invoked
// strictly after commit and must never surface failures to the caller: a lost
// email is an annoyance, a rolled-back paid order is not.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.Order)
	OrderStatusChanged(ctx context.Context, order *models.Order)
}

// Noop is used in tests and when SMTP is not configured.
type Noop struct{}

func (Noop) OrderCreated(ctx context.Context, order *models.Order)       {}
func (Noop) OrderStatusChanged(ctx context.Context, order *models.Order) {}
