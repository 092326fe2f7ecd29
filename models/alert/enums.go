package alert

// AlertStatus represents the lifecycle state of an alert
type AlertStatus string

const (
	AlertStatusOpen         AlertStatus = "open"
	AlertStatusAcknowledged AlertStatus = "acknowledged"
	AlertStatusResolved     AlertStatus = "resolved"
)

// Helper methods for AlertStatus
func (as AlertStatus) String() string {
	return string(as)
}

func (as AlertStatus) IsValid() bool {
	switch as {
	case AlertStatusOpen, AlertStatusAcknowledged, AlertStatusResolved:
		return true
	default:
		return false
	}
}

// IsOpen returns true if the alert still needs operator attention
func (as AlertStatus) IsOpen() bool {
	return as == AlertStatusOpen
}

// GetAllAlertStatuses returns all valid alert statuses
func GetAllAlertStatuses() []AlertStatus {
	return []AlertStatus{
		AlertStatusOpen,
		AlertStatusAcknowledged,
		AlertStatusResolved,
	}
}
