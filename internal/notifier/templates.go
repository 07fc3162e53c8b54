package notifier

import (
	"bytes"
	"fmt"
	"html/template"

	"printshop_backend/internal/models"
)

var orderCreatedTmpl = template.Must(template.New("order_created").Parse(`
<h2>Thank you for your order!</h2>
<p>Order <strong>{{.ID}}</strong> has been received.</p>
<table>
{{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}} × {{printf "%.2f" .UnitPrice}}</td></tr>
{{end}}</table>
<p>Total: <strong>{{printf "%.2f" .TotalPrice}}</strong></p>
<p>We will let you know as soon as it ships.</p>
`))

var statusChangedTmpl = template.Must(template.New("status_changed").Parse(`
<h2>Order update</h2>
<p>Order <strong>{{.ID}}</strong> is now <strong>{{.Status}}</strong>.</p>
{{if .TrackingCode}}<p>Tracking: {{.Carrier}} {{.TrackingCode}}</p>{{end}}
`))

func renderOrderCreated(order *models.Order) (string, error) {
	var buf bytes.Buffer
	if err := orderCreatedTmpl.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("render order_created: %w", err)
	}
	return buf.String(), nil
}

func renderStatusChanged(order *models.Order) (string, error) {
	var buf bytes.Buffer
	if err := statusChangedTmpl.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("render status_changed: %w", err)
	}
	return buf.String(), nil
}
