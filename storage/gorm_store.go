package storage

import (
	"errors"
	"time"

	alertModel "minpaku-guard/models/alert"
	bookingModel "minpaku-guard/models/booking"

	"gorm.io/gorm"
)

// GormStore is the Postgres-backed Store implementation
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore creates a store on top of an initialized gorm connection
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// GetBooking loads a booking with its guest and room, or nil if none exists
func (s *GormStore) GetBooking(id uint) (*bookingModel.Booking, error) {
	var bk bookingModel.Booking
	err := s.DB.Preload("Guest").Preload("Room").First(&bk, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bk, nil
}

// CreateAlert appends a new open alert for the booking. Identity comes from
// the database sequence, so concurrent runs can never collide.
func (s *GormStore) CreateAlert(bookingID uint, reservedCount, actualCount int) (*alertModel.Alert, error) {
	created := alertModel.Alert{
		BookingID:     bookingID,
		DetectedAt:    time.Now(),
		ReservedCount: reservedCount,
		ActualCount:   actualCount,
		Status:        alertModel.AlertStatusOpen,
	}

	if err := s.DB.Create(&created).Error; err != nil {
		return nil, err
	}

	return &created, nil
}

// GetAlert loads one alert with its booking context, or nil if none exists
func (s *GormStore) GetAlert(id uint) (*alertModel.Alert, error) {
	var found alertModel.Alert
	err := s.DB.Preload("Booking").Preload("Booking.Guest").Preload("Booking.Room").First(&found, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// ListAlerts returns all alerts, newest detection first
func (s *GormStore) ListAlerts() ([]alertModel.Alert, error) {
	var alerts []alertModel.Alert
	err := s.DB.Preload("Booking").Preload("Booking.Guest").Preload("Booking.Room").
		Order("detected_at DESC").Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

// UpdateAlertStatus moves an alert through its acknowledge/resolve lifecycle,
// returning nil if the alert does not exist
func (s *GormStore) UpdateAlertStatus(id uint, status alertModel.AlertStatus) (*alertModel.Alert, error) {
	var found alertModel.Alert
	err := s.DB.First(&found, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	found.Status = status
	if err := s.DB.Save(&found).Error; err != nil {
		return nil, err
	}

	return &found, nil
}
