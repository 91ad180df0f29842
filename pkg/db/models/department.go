package models

import "github.com/google/uuid"

// Department groups users and scopes Department Manager order visibility.
type Department struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name string    `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
}
