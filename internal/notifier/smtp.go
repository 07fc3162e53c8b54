package notifier

import (
	"context"
	"fmt"

	"printshop_backend/internal/config"
	"printshop_backend/internal/logger"
	"printshop_backend/internal/models"

	"gopkg.in/gomail.v2"
)

// EmailNotifier delivers order mail over SMTP. Every send runs in its own
// goroutine; errors are logged and swallowed.
type EmailNotifier struct {
	cfg *config.Config
}

func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) OrderCreated(ctx context.Context, order *models.Order) {
	to := recipientFor(order)
	if to == "" {
		logger.CtxDebug(ctx, "no recipient for order confirmation", "order_id", order.ID)
		return
	}

	go func() {
		body, err := renderOrderCreated(order)
		if err != nil {
			logger.Error("failed to render order confirmation", "order_id", order.ID, "error", err)
			return
		}
		subject := fmt.Sprintf("Order confirmation %s", order.ID)
		if err := n.send(to, subject, body); err != nil {
			logger.Error("failed to send order confirmation", "order_id", order.ID, "error", err)
		}
	}()
}

func (n *EmailNotifier) OrderStatusChanged(ctx context.Context, order *models.Order) {
	to := recipientFor(order)
	if to == "" {
		return
	}

	go func() {
		body, err := renderStatusChanged(order)
		if err != nil {
			logger.Error("failed to render status update", "order_id", order.ID, "error", err)
			return
		}
		subject := fmt.Sprintf("Order %s is now %s", order.ID, order.Status)
		if err := n.send(to, subject, body); err != nil {
			logger.Error("failed to send status update", "order_id", order.ID, "error", err)
		}
	}()
}

// recipientFor picks the shipping address email. Guest checkouts without one
// simply get no mail.
func recipientFor(order *models.Order) string {
	if order.ShippingAddress != nil {
		return order.ShippingAddress.Email
	}
	return ""
}

func (n *EmailNotifier) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.cfg.Email.FromEmail, n.cfg.Email.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		n.cfg.Email.SMTPHost,
		n.cfg.Email.SMTPPort,
		n.cfg.Email.SMTPUsername,
		n.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}
