package guest

import "errors"

// GuestCreateRequest is the payload for registering a guest
type GuestCreateRequest struct {
	FullName        string  `json:"full_name"`
	Age             *int    `json:"age,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Email           *string `json:"email,omitempty"`
	LicenseImageURL *string `json:"license_image_url,omitempty"`
	FaceImageURL    *string `json:"face_image_url,omitempty"`
}

// Validate checks the request for missing fields
func (r *GuestCreateRequest) Validate() error {
	if r.FullName == "" {
		return errors.New("full_name is required")
	}
	if r.Age != nil && *r.Age < 0 {
		return errors.New("age must not be negative")
	}
	return nil
}
