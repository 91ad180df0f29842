package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/distributech/distributech-backend/pkg/enums"
)

// OrderStatus is an append-only history row. Rows are never mutated outside
// the SuperAdmin destroy path; each new status is a new row.
type OrderStatus struct {
	ID                   uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID              uuid.UUID         `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	Status               enums.OrderStatus `gorm:"column:status;type:text;not null" json:"status"`
	CurrentLocation      *string           `gorm:"column:current_location" json:"current_location"`
	LocationTimestamp    time.Time         `gorm:"column:location_timestamp;not null" json:"location_timestamp"`
	Remarks              *string           `gorm:"column:remarks" json:"remarks"`
	ExpectedDeliveryDate *time.Time        `gorm:"column:expected_delivery_date" json:"expected_delivery_date"`
	UpdatedByID          *uuid.UUID        `gorm:"column:updated_by_id;type:uuid" json:"updated_by_id"`
	UpdatedBy            *User             `gorm:"foreignKey:UpdatedByID" json:"updated_by,omitempty"`
	CreatedAt            time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
