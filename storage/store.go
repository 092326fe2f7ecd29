package storage

import (
	alertModel "minpaku-guard/models/alert"
	bookingModel "minpaku-guard/models/booking"
)

// Store is the booking/alert persistence contract the occupancy pipeline and
// the alert lifecycle depend on. Implementations must make CreateAlert atomic
// and must never reuse alert identities, even under concurrent runs. Lookups
// return nil (not an error) for a missing record.
type Store interface {
	GetBooking(id uint) (*bookingModel.Booking, error)
	CreateAlert(bookingID uint, reservedCount, actualCount int) (*alertModel.Alert, error)
	GetAlert(id uint) (*alertModel.Alert, error)
	ListAlerts() ([]alertModel.Alert, error)
	UpdateAlertStatus(id uint, status alertModel.AlertStatus) (*alertModel.Alert, error)
}
