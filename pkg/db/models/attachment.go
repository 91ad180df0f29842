package models

import (
	"time"

	"github.com/google/uuid"
)

// Attachment stores a file URL attached to an order; the file itself lives
// outside this system.
type Attachment struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null" json:"order_id"`
	UploadedByID uuid.UUID `gorm:"column:uploaded_by_id;type:uuid;not null" json:"uploaded_by_id"`
	FileURL      string    `gorm:"column:file_url;type:text;not null" json:"file_url"`
	UploadedAt   time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
}
