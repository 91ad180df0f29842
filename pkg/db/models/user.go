package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents the canonical identity entity. Role and department are
// mandatory and never null.
type User struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string      `gorm:"column:username;type:text;not null;uniqueIndex" json:"username"`
	Email        string      `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string      `gorm:"column:password_hash;not null" json:"-"`
	RoleID       uuid.UUID   `gorm:"column:role_id;type:uuid;not null" json:"role_id"`
	Role         *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	DepartmentID uuid.UUID   `gorm:"column:department_id;type:uuid;not null" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	IsActive     bool        `gorm:"column:is_active;not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time  `gorm:"column:last_login_at" json:"last_login_at"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
