package room

import "errors"

// RoomCreateRequest is the payload for registering a room
type RoomCreateRequest struct {
	Name    string  `json:"name"`
	Address *string `json:"address,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

// Validate checks the request for missing fields
func (r *RoomCreateRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}
