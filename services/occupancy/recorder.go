package occupancy

import (
	alertModel "minpaku-guard/models/alert"
	bookingModel "minpaku-guard/models/booking"
)

// Store is the booking/alert persistence the pipeline depends on. CreateAlert
// must be atomic and must never reuse an identity; GetBooking returns nil for
// a missing booking rather than an error.
type Store interface {
	GetBooking(id uint) (*bookingModel.Booking, error)
	CreateAlert(bookingID uint, reservedCount, actualCount int) (*alertModel.Alert, error)
}

// Recorder conditionally persists an alert for a discrepancy verdict
type Recorder struct {
	Store Store
}

// RecordIfNeeded creates exactly one open alert when the verdict is an error
// and returns nil without side effects otherwise. Every error verdict creates
// a new alert: repeated detections for the same booking are not deduplicated
// here, that is a policy decision left to the caller.
func (r *Recorder) RecordIfNeeded(verdict Verdict, bookingID uint) (*alertModel.Alert, error) {
	if verdict.Status != VerdictError {
		return nil, nil
	}

	created, err := r.Store.CreateAlert(bookingID, verdict.ReservedCount, verdict.DetectedCount)
	if err != nil {
		return nil, storeFailure(StageRecording, err)
	}

	return created, nil
}
