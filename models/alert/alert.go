package alert

import (
	"time"

	"minpaku-guard/models/booking"
)

// Alert represents one detected over-occupancy event for a booking.
// ActualCount is strictly greater than ReservedCount at creation time;
// the alert references the booking but never owns or mutates it.
type Alert struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for bookings relationship
	BookingID uint            `gorm:"not null;index" json:"booking_id"`
	Booking   booking.Booking `gorm:"foreignKey:BookingID" json:"booking"`

	DetectedAt    time.Time `gorm:"not null;index" json:"detected_at"`
	ReservedCount int       `gorm:"not null" json:"reserved_count"`
	ActualCount   int       `gorm:"not null" json:"actual_count"`

	Status AlertStatus `gorm:"type:varchar(50);not null;default:'open';index" json:"status"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"` // Soft delete field
}
