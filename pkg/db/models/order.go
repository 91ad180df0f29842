package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/distributech/distributech-backend/pkg/enums"
)

// Order is owned by exactly one user. Status mirrors the newest OrderStatus
// row and is only ever written together with one inside a transaction.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	User      *User             `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Status    enums.OrderStatus `gorm:"column:status;type:text;not null" json:"status"`
	Items     []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Statuses  []OrderStatus     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"statuses,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
