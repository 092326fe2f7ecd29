package room

import (
	"time"
)

// Room represents a rentable property unit
type Room struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	Name    string  `gorm:"type:varchar(255);not null" json:"name"`
	Address *string `gorm:"type:text" json:"address,omitempty"`
	Notes   *string `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"` // Soft delete field
}
