package notify

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/distributech/distributech-backend/pkg/mail"
)

// OrderLine is one rendered line of an order email.
type OrderLine struct {
	Name      string
	Quantity  int
	UnitPrice string
	LineTotal string
}

// OrderCreatedData feeds the order notification template.
type OrderCreatedData struct {
	OrderID    string
	Status     string
	Department string
	CreatedAt  time.Time
	Lines      []OrderLine
	Total      string
}

// LowStockData feeds the low stock alert template.
type LowStockData struct {
	ItemName         string
	MeasurementUnit  string
	CurrentStock     int
	MinimumThreshold int
	Price            string
	SupplierUsername string
}

// StatusChangeData feeds the order status change template.
type StatusChangeData struct {
	OrderID         string
	Status          string
	CurrentLocation string
	Remarks         string
	RecordedAt      time.Time
}

var orderCreatedTmpl = template.Must(template.New("order_created").Parse(`
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #f5f5f5; padding: 20px; border-radius: 5px; margin-bottom: 20px;">
    <h1 style="color: #0284c7; margin: 0 0 10px;">Order Notification</h1>
    <p>Your order has been received and is being processed.</p>
  </div>
  <div style="margin-bottom: 20px;">
    <h2 style="color: #0284c7; border-bottom: 2px solid #0284c7; padding-bottom: 5px;">Order Details</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><th style="text-align: left; padding: 8px;">Order Number:</th><td style="padding: 8px;">#{{.OrderID}}</td></tr>
      <tr><th style="text-align: left; padding: 8px;">Date:</th><td style="padding: 8px;">{{.CreatedAt.Format "January 2, 2006"}}</td></tr>
      <tr><th style="text-align: left; padding: 8px;">Status:</th><td style="padding: 8px;">{{.Status}}</td></tr>
      <tr><th style="text-align: left; padding: 8px;">Department:</th><td style="padding: 8px;">{{.Department}}</td></tr>
    </table>
  </div>
  <div style="margin-bottom: 20px;">
    <h2 style="color: #0284c7; border-bottom: 2px solid #0284c7; padding-bottom: 5px;">Order Items</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <thead>
        <tr style="background-color: #f5f5f5;">
          <th style="text-align: left; padding: 8px; border-bottom: 2px solid #ddd;">Item</th>
          <th style="text-align: left; padding: 8px; border-bottom: 2px solid #ddd;">Quantity</th>
          <th style="text-align: left; padding: 8px; border-bottom: 2px solid #ddd;">Unit Price</th>
          <th style="text-align: left; padding: 8px; border-bottom: 2px solid #ddd;">Total</th>
        </tr>
      </thead>
      <tbody>
        {{range .Lines}}
        <tr>
          <td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Name}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #ddd;">{{.Quantity}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #ddd;">${{.UnitPrice}}</td>
          <td style="padding: 8px; border-bottom: 1px solid #ddd;">${{.LineTotal}}</td>
        </tr>
        {{end}}
        <tr>
          <td colspan="3" style="text-align: right; padding: 8px; font-weight: bold;">Total:</td>
          <td style="padding: 8px; font-weight: bold;">${{.Total}}</td>
        </tr>
      </tbody>
    </table>
  </div>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; font-size: 12px; color: #666;">
    <p>Thank you for your order. If you have any questions, please contact your department manager.</p>
    <p>This is an automated message from DistribuTech Inventory Management System.</p>
  </div>
</body>
</html>
`))

var lowStockTmpl = template.Must(template.New("low_stock").Parse(`
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #fff3f3; padding: 20px; border-radius: 5px; margin-bottom: 20px; border-left: 5px solid #ef4444;">
    <h1 style="color: #ef4444; margin: 0 0 10px;">Low Stock Alert</h1>
    <p>The following item has fallen below its minimum threshold.</p>
  </div>
  <div style="margin-bottom: 20px;">
    <h2 style="color: #0284c7; border-bottom: 2px solid #0284c7; padding-bottom: 5px;">Item Details</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><th style="text-align: left; padding: 8px;">Item Name:</th><td style="padding: 8px;">{{.ItemName}}</td></tr>
      <tr><th style="text-align: left; padding: 8px;">Current Stock:</th><td style="padding: 8px;">{{.CurrentStock}} {{.MeasurementUnit}}</td></tr>
      <tr><th style="text-align: left; padding: 8px;">Minimum Threshold:</th><td style="padding: 8px;">{{.MinimumThreshold}} {{.MeasurementUnit}}</td></tr>
      <tr><th style="text-align: left; padding: 8px;">Price:</th><td style="padding: 8px;">${{.Price}}</td></tr>
      <tr><th style="text-align: left; padding: 8px;">Supplier:</th><td style="padding: 8px;">{{.SupplierUsername}}</td></tr>
    </table>
  </div>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; font-size: 12px; color: #666;">
    <p>Please take appropriate action to restock this item.</p>
    <p>This is an automated message from DistribuTech Inventory Management System.</p>
  </div>
</body>
</html>
`))

var statusChangeTmpl = template.Must(template.New("status_change").Parse(`
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #f0f9ff; padding: 20px; border-radius: 5px; margin-bottom: 20px; border-left: 5px solid #0ea5e9;">
    <h1 style="color: #0284c7; margin: 0 0 10px;">Order Status Update</h1>
    <p>Order #{{.OrderID}} is now <strong>{{.Status}}</strong>.</p>
  </div>
  <div style="margin-bottom: 20px;">
    <h2 style="color: #0284c7; border-bottom: 2px solid #0284c7; padding-bottom: 5px;">Status Details</h2>
    <table style="width: 100%; border-collapse: collapse;">
      <tr><th style="text-align: left; padding: 8px;">Status:</th><td style="padding: 8px;">{{.Status}}</td></tr>
      {{if .CurrentLocation}}<tr><th style="text-align: left; padding: 8px;">Location:</th><td style="padding: 8px;">{{.CurrentLocation}}</td></tr>{{end}}
      {{if .Remarks}}<tr><th style="text-align: left; padding: 8px;">Remarks:</th><td style="padding: 8px;">{{.Remarks}}</td></tr>{{end}}
      <tr><th style="text-align: left; padding: 8px;">Recorded:</th><td style="padding: 8px;">{{.RecordedAt.Format "January 2, 2006 15:04 MST"}}</td></tr>
    </table>
  </div>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; font-size: 12px; color: #666;">
    <p>This is an automated message from DistribuTech Inventory Management System.</p>
  </div>
</body>
</html>
`))

var testTmpl = template.Must(template.New("test").Parse(`
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #f0f9ff; padding: 20px; border-radius: 5px; margin-bottom: 20px; border-left: 5px solid #0ea5e9;">
    <h1 style="color: #0284c7; margin: 0 0 10px;">DistribuTech Email Test</h1>
    <p>This is a test email sent at {{.SentAt.Format "2006-01-02 15:04:05"}}.</p>
  </div>
  <div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px; font-size: 12px; color: #666;">
    <p>If you received this email, the email notification system is configured correctly.</p>
    <p>This is a test message from DistribuTech Inventory Management System.</p>
  </div>
</body>
</html>
`))

// NewOrderCreated renders the order notification for the given recipient.
func NewOrderCreated(recipient string, data OrderCreatedData) (Notification, error) {
	body, err := render(orderCreatedTmpl, data)
	if err != nil {
		return Notification{}, err
	}
	return Notification{
		Kind: KindOrderCreated,
		Message: mail.Message{
			To:       []string{recipient},
			Subject:  fmt.Sprintf("Order #%s Notification", data.OrderID),
			HTMLBody: body,
		},
	}, nil
}

// NewLowStock renders the low stock alert for the given recipient.
func NewLowStock(recipient string, data LowStockData) (Notification, error) {
	if strings.TrimSpace(data.MeasurementUnit) == "" {
		data.MeasurementUnit = "units"
	}
	body, err := render(lowStockTmpl, data)
	if err != nil {
		return Notification{}, err
	}
	return Notification{
		Kind: KindLowStock,
		Message: mail.Message{
			To:       []string{recipient},
			Subject:  fmt.Sprintf("Low Stock Alert: %s", data.ItemName),
			HTMLBody: body,
		},
	}, nil
}

// NewStatusChange renders the status change notification for the given recipient.
func NewStatusChange(recipient string, data StatusChangeData) (Notification, error) {
	body, err := render(statusChangeTmpl, data)
	if err != nil {
		return Notification{}, err
	}
	return Notification{
		Kind: KindStatusChange,
		Message: mail.Message{
			To:       []string{recipient},
			Subject:  fmt.Sprintf("Order #%s Status Update: %s", data.OrderID, data.Status),
			HTMLBody: body,
		},
	}, nil
}

// NewTest renders the configuration test email.
func NewTest(recipient string, sentAt time.Time) (Notification, error) {
	body, err := render(testTmpl, struct{ SentAt time.Time }{SentAt: sentAt})
	if err != nil {
		return Notification{}, err
	}
	return Notification{
		Kind: KindTest,
		Message: mail.Message{
			To:       []string{recipient},
			Subject:  "DistribuTech Email Test",
			HTMLBody: body,
		},
	}, nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}
