package models

import (
	"time"

	"github.com/google/uuid"
)

// Stock holds the latest quantity snapshot for one item. There is no
// point-in-time ledger; every write replaces the snapshot.
type Stock struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID           uuid.UUID `gorm:"column:item_id;type:uuid;not null" json:"item_id"`
	Item             *Item     `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	CurrentStock     int       `gorm:"column:current_stock;not null" json:"current_stock"`
	MinimumThreshold int       `gorm:"column:minimum_threshold;not null" json:"minimum_threshold"`
	SupplierID       uuid.UUID `gorm:"column:supplier_id;type:uuid;not null" json:"supplier_id"`
	Supplier         *User     `gorm:"foreignKey:SupplierID" json:"-"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// BelowThreshold reports whether the snapshot qualifies for a low-stock alert.
func (s Stock) BelowThreshold() bool {
	return s.CurrentStock <= s.MinimumThreshold
}
