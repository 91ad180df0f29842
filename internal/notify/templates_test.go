package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderCreatedRendersLinesAndTotal(t *testing.T) {
	n, err := NewOrderCreated("manager@distributech.io", OrderCreatedData{
		OrderID:    "42",
		Status:     "Pending",
		Department: "Logistics",
		CreatedAt:  time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		Lines: []OrderLine{
			{Name: "Pallet Wrap", Quantity: 3, UnitPrice: "10.00", LineTotal: "30.00"},
			{Name: "Box Cutter", Quantity: 1, UnitPrice: "5.00", LineTotal: "5.00"},
		},
		Total: "35.00",
	})
	require.NoError(t, err)

	assert.Equal(t, KindOrderCreated, n.Kind)
	assert.Equal(t, []string{"manager@distributech.io"}, n.Message.To)
	assert.Equal(t, "Order #42 Notification", n.Message.Subject)
	assert.Contains(t, n.Message.HTMLBody, "Pallet Wrap")
	assert.Contains(t, n.Message.HTMLBody, "$30.00")
	assert.Contains(t, n.Message.HTMLBody, "$35.00")
	assert.Contains(t, n.Message.HTMLBody, "Logistics")
	assert.Contains(t, n.Message.HTMLBody, "March 14, 2025")
}

func TestNewLowStockDefaultsMeasurementUnit(t *testing.T) {
	n, err := NewLowStock("inventory@distributech.io", LowStockData{
		ItemName:         "Stretch Film",
		CurrentStock:     2,
		MinimumThreshold: 10,
		Price:            "12.50",
		SupplierUsername: "acme.supply",
	})
	require.NoError(t, err)

	assert.Equal(t, "Low Stock Alert: Stretch Film", n.Message.Subject)
	assert.Contains(t, n.Message.HTMLBody, "2 units")
	assert.Contains(t, n.Message.HTMLBody, "10 units")
	assert.Contains(t, n.Message.HTMLBody, "acme.supply")
}

func TestNewStatusChangeOmitsEmptyOptionalRows(t *testing.T) {
	n, err := NewStatusChange("ops@distributech.io", StatusChangeData{
		OrderID:    "7",
		Status:     "Shipped",
		RecordedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "Order #7 Status Update: Shipped", n.Message.Subject)
	assert.NotContains(t, n.Message.HTMLBody, "Location:")
	assert.NotContains(t, n.Message.HTMLBody, "Remarks:")

	n, err = NewStatusChange("ops@distributech.io", StatusChangeData{
		OrderID:         "7",
		Status:          "In Transit",
		CurrentLocation: "Hub West",
		Remarks:         "Left the depot",
		RecordedAt:      time.Now(),
	})
	require.NoError(t, err)
	assert.Contains(t, n.Message.HTMLBody, "Hub West")
	assert.Contains(t, n.Message.HTMLBody, "Left the depot")
}

func TestNewTest(t *testing.T) {
	sentAt := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	n, err := NewTest("dev@distributech.io", sentAt)
	require.NoError(t, err)

	assert.Equal(t, KindTest, n.Kind)
	assert.Contains(t, n.Message.HTMLBody, "2025-03-14 09:30:00")
}
