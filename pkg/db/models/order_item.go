package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one line of an order. PriceAtOrderTime is captured at
// creation and stays fixed even when the catalog price changes later.
type OrderItem struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID          uuid.UUID       `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	ItemID           uuid.UUID       `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	Item             *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Quantity         int             `gorm:"column:quantity;not null" json:"quantity"`
	PriceAtOrderTime decimal.Decimal `gorm:"column:price_at_order_time;type:numeric(10,2);not null" json:"price_at_order_time"`
}

// LineTotal returns quantity times the snapshotted unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtOrderTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
