package guest

import (
	"time"
)

// Guest represents a registered guest of the property
type Guest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	FullName        string  `gorm:"type:varchar(255);not null" json:"full_name"`
	Age             *int    `json:"age,omitempty"`
	Phone           *string `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Email           *string `gorm:"type:varchar(255)" json:"email,omitempty"`
	LicenseImageURL *string `gorm:"type:text" json:"license_image_url,omitempty"`
	FaceImageURL    *string `gorm:"type:text" json:"face_image_url,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"` // Soft delete field
}
