package booking

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	BookingStatusBooked     BookingStatus = "booked"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCanceled   BookingStatus = "canceled"
)

// Helper methods for BookingStatus
func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusBooked, BookingStatusCheckedIn, BookingStatusCheckedOut, BookingStatusCanceled:
		return true
	default:
		return false
	}
}

// IsCompleted returns true if the booking is in a terminal state
func (bs BookingStatus) IsCompleted() bool {
	return bs == BookingStatusCheckedOut || bs == BookingStatusCanceled
}

// CanCheckIn returns true if the booking can transition to checked_in
func (bs BookingStatus) CanCheckIn() bool {
	return bs == BookingStatusBooked
}

// CanCheckOut returns true if the booking can transition to checked_out
func (bs BookingStatus) CanCheckOut() bool {
	return bs == BookingStatusCheckedIn
}

// CanCancel returns true if the booking can still be canceled
func (bs BookingStatus) CanCancel() bool {
	return bs == BookingStatusBooked
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusBooked,
		BookingStatusCheckedIn,
		BookingStatusCheckedOut,
		BookingStatusCanceled,
	}
}
