package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a catalog entry. Price is the current catalog price; order line
// items snapshot it at order time.
type Item struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string          `gorm:"column:name;type:text;not null" json:"name"`
	Description     *string         `gorm:"column:description" json:"description,omitempty"`
	MeasurementUnit *string         `gorm:"column:measurement_unit" json:"measurement_unit,omitempty"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" json:"price"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
