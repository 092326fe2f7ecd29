package booking_event

import (
	bookingModel "minpaku-guard/models/booking"

	"gorm.io/gorm"
)

// SnapshotBookingToEvent writes a full snapshot of a Booking row into
// BookingEvent with the given event type. Called inside the same transaction
// as the status change so the trail never diverges from the booking.
func SnapshotBookingToEvent(tx *gorm.DB, b *bookingModel.Booking, eventType string) error {
	ev := bookingModel.BookingEvent{
		BookingID:     b.ID,
		GuestID:       b.GuestID,
		RoomID:        b.RoomID,
		ReservedAt:    b.ReservedAt,
		ReservedCount: b.ReservedCount,
		Status:        b.Status,
		EventType:     eventType,
	}

	return tx.Create(&ev).Error
}
