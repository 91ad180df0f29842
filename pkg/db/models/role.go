package models

import (
	"github.com/google/uuid"

	"github.com/distributech/distributech-backend/pkg/enums"
)

// Role is a catalog row for the closed access-level set.
type Role struct {
	ID   uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name enums.Role `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
}
