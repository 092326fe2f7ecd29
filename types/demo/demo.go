package demo

import "errors"

// DifyTriggerRequest is the payload for manually forwarding a verdict to the
// Dify workflow engine
type DifyTriggerRequest struct {
	HasDiscrepancy *bool  `json:"has_discrepancy"`
	ReservedCount  int    `json:"reserved_count"`
	DetectedCount  int    `json:"detected_count"`
	BookingName    string `json:"booking_name,omitempty"`
}

// Validate checks the request for missing or malformed fields
func (r *DifyTriggerRequest) Validate() error {
	if r.HasDiscrepancy == nil {
		return errors.New("has_discrepancy is required")
	}
	if r.ReservedCount < 0 || r.DetectedCount < 0 {
		return errors.New("counts must not be negative")
	}
	return nil
}
