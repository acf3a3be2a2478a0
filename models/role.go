package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role represents a named permission group a user may belong to
type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:varchar(256);uniqueIndex;not null" json:"name"`
	Seq       int64     `gorm:"autoIncrement;not null;uniqueIndex" json:"-"` // bigserial, thứ tự insert
	CreatedAt time.Time `json:"-"`

	// Relationships
	Users []User `gorm:"many2many:user_roles;" json:"-"`
}

// BeforeCreate hook to generate UUID
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name
func (Role) TableName() string {
	return "roles"
}
