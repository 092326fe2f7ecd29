package booking

import (
	"time"

	"minpaku-guard/models/guest"
	"minpaku-guard/models/room"
)

// Booking represents a reservation linking a guest, a room and a contracted headcount
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Foreign key for guests relationship
	GuestID uint        `gorm:"not null" json:"guest_id"`
	Guest   guest.Guest `gorm:"foreignKey:GuestID" json:"guest"`

	// Foreign key for rooms relationship
	RoomID uint      `gorm:"not null" json:"room_id"`
	Room   room.Room `gorm:"foreignKey:RoomID" json:"room"`

	ReservedAt    time.Time `gorm:"not null" json:"reserved_at"`
	ReservedCount int       `gorm:"not null" json:"reserved_count"`

	Status BookingStatus `gorm:"type:varchar(50);not null;default:'booked'" json:"status"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"` // Soft delete field
}
