package booking

import (
	"errors"
	"time"
)

// BookingCreateRequest is the payload for creating a booking
type BookingCreateRequest struct {
	GuestID       uint   `json:"guest_id"`
	RoomID        uint   `json:"room_id"`
	ReservedAt    string `json:"reserved_at"` // RFC3339
	ReservedCount int    `json:"reserved_count"`
}

// Validate checks the request for missing or malformed fields
func (r *BookingCreateRequest) Validate() error {
	if r.GuestID == 0 {
		return errors.New("guest_id is required")
	}
	if r.RoomID == 0 {
		return errors.New("room_id is required")
	}
	if r.ReservedAt == "" {
		return errors.New("reserved_at is required")
	}
	if _, err := time.Parse(time.RFC3339, r.ReservedAt); err != nil {
		return errors.New("reserved_at must be an RFC3339 timestamp")
	}
	if r.ReservedCount <= 0 {
		return errors.New("reserved_count must be a positive integer")
	}
	return nil
}

// ReservedAtTime parses the ReservedAt field. Call Validate first.
func (r *BookingCreateRequest) ReservedAtTime() time.Time {
	t, _ := time.Parse(time.RFC3339, r.ReservedAt)
	return t
}
