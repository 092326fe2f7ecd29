package occupancy_check

import (
	"time"

	"gorm.io/gorm"
)

// CheckRequest represents one occupancy check run against an uploaded photo or video
type CheckRequest struct {
	ID               uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	RequestID        string `json:"request_id" gorm:"type:varchar(24);uniqueIndex;not null"` // 24 character unique ID
	BookingID        uint   `json:"booking_id" gorm:"not null;index"`
	OriginalFileName string `json:"original_file_name" gorm:"type:varchar(255);not null"`
	SavedFileName    string `json:"saved_file_name" gorm:"type:varchar(255);not null"`
	FileHash         string `json:"file_hash" gorm:"type:varchar(128);index"` // SHA256 hash
	FilePath         string `json:"file_path" gorm:"type:varchar(500);not null"`
	FileSize         int64  `json:"file_size" gorm:"not null"`
	MimeType         string `json:"mime_type" gorm:"type:varchar(100);not null"`
	MediaKind        string `json:"media_kind" gorm:"type:varchar(20);not null"`                       // photo, video
	Status           string `json:"status" gorm:"type:varchar(50);not null;default:'processing';index"` // processing, success, failed
	ProcessingTimeMs int64  `json:"processing_time_ms" gorm:"default:0"`

	// Pipeline result fields
	ReservedCount int   `json:"reserved_count" gorm:"default:0"`
	DetectedCount int   `json:"detected_count" gorm:"default:0"`
	FrameCount    int   `json:"frame_count" gorm:"default:0"`
	Discrepancy   bool  `json:"discrepancy" gorm:"default:false;index"`
	AlertID       *uint `json:"alert_id,omitempty"`

	// Error information
	ErrorMessage string `json:"error_message" gorm:"type:text;default:''"`

	// Metadata
	IPAddress string `json:"ip_address" gorm:"type:varchar(45);index;default:''"` // Support IPv6
	UserAgent string `json:"user_agent" gorm:"type:text;default:''"`

	// Timestamps
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

// TableName returns the table name for CheckRequest
func (CheckRequest) TableName() string {
	return "occupancy_check_requests"
}

// BeforeCreate hook to set default values
func (cr *CheckRequest) BeforeCreate(tx *gorm.DB) error {
	if cr.Status == "" {
		cr.Status = "processing"
	}
	return nil
}

// IsProcessing checks if the request is still processing
func (cr *CheckRequest) IsProcessing() bool {
	return cr.Status == "processing"
}

// IsSuccess checks if the request completed successfully
func (cr *CheckRequest) IsSuccess() bool {
	return cr.Status == "success"
}

// IsFailed checks if the request failed
func (cr *CheckRequest) IsFailed() bool {
	return cr.Status == "failed"
}

// MarkAsSuccess marks the request as successful and saves the pipeline
// outcome. Only the result columns are written: the media file is saved
// concurrently and a whole-row save could revert its metadata.
func (cr *CheckRequest) MarkAsSuccess(db *gorm.DB, reservedCount, detectedCount, frameCount int, discrepancy bool, alertID *uint, processingTime int64) error {
	cr.Status = "success"
	cr.ReservedCount = reservedCount
	cr.DetectedCount = detectedCount
	cr.FrameCount = frameCount
	cr.Discrepancy = discrepancy
	cr.AlertID = alertID
	cr.ProcessingTimeMs = processingTime

	return db.Model(cr).Updates(cr.resultUpdates()).Error
}

// MarkAsFailed marks the request as failed with error message. Column scoped
// for the same reason as MarkAsSuccess.
func (cr *CheckRequest) MarkAsFailed(db *gorm.DB, errorMsg string, processingTime int64) error {
	cr.Status = "failed"
	cr.ErrorMessage = errorMsg
	cr.ProcessingTimeMs = processingTime

	return db.Model(cr).Updates(cr.failureUpdates()).Error
}

func (cr *CheckRequest) resultUpdates() map[string]interface{} {
	return map[string]interface{}{
		"status":             cr.Status,
		"reserved_count":     cr.ReservedCount,
		"detected_count":     cr.DetectedCount,
		"frame_count":        cr.FrameCount,
		"discrepancy":        cr.Discrepancy,
		"alert_id":           cr.AlertID,
		"processing_time_ms": cr.ProcessingTimeMs,
	}
}

func (cr *CheckRequest) failureUpdates() map[string]interface{} {
	return map[string]interface{}{
		"status":             cr.Status,
		"error_message":      cr.ErrorMessage,
		"processing_time_ms": cr.ProcessingTimeMs,
	}
}
