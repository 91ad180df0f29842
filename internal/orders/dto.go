package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/distributech/distributech-backend/pkg/db/models"
)

// LineRequest is one requested order line.
type LineRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid4"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// CreateRequest is the payload for placing an order.
type CreateRequest struct {
	Items []LineRequest `json:"items" validate:"required,min=1,dive"`
}

// RecordStatusRequest is the payload for appending a status history row.
type RecordStatusRequest struct {
	Status               string     `json:"status" validate:"required"`
	CurrentLocation      *string    `json:"current_location"`
	Remarks              *string    `json:"remarks"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
}

// UpdateOrderItemRequest changes the quantity of one order line.
type UpdateOrderItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// ListFilters narrows the order listing.
type ListFilters struct {
	Status       string
	DepartmentID *uuid.UUID
}

// LineDetail is a computed order line in responses.
type LineDetail struct {
	ID               uuid.UUID       `json:"id"`
	ItemID           uuid.UUID       `json:"item_id"`
	ItemName         string          `json:"item_name"`
	Quantity         int             `json:"quantity"`
	PriceAtOrderTime decimal.Decimal `json:"price_at_order_time"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// Detail is an order with its computed totals.
type Detail struct {
	Order *models.Order   `json:"order"`
	Lines []LineDetail    `json:"lines"`
	Total decimal.Decimal `json:"total"`
}
