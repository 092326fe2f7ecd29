package booking

import (
	"time"
)

// BookingEvent is an immutable snapshot of a booking taken at each lifecycle
// transition, kept as an audit trail alongside the mutable booking row
type BookingEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint `gorm:"not null;index" json:"booking_id"`

	GuestID       uint      `gorm:"not null" json:"guest_id"`
	RoomID        uint      `gorm:"not null" json:"room_id"`
	ReservedAt    time.Time `gorm:"not null" json:"reserved_at"`
	ReservedCount int       `gorm:"not null" json:"reserved_count"`

	Status    BookingStatus `gorm:"type:varchar(50);not null" json:"status"`
	EventType string        `gorm:"type:varchar(50);not null" json:"event_type"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
