package occupancy_check

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"minpaku-guard/logger"
	checkModel "minpaku-guard/models/occupancy_check"
	"minpaku-guard/services/occupancy"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CheckService handles the lifecycle records of occupancy check runs
type CheckService struct {
	DB        *gorm.DB
	UploadDir string
}

// NewCheckService creates a new occupancy check service
func NewCheckService(db *gorm.DB) *CheckService {
	return &CheckService{
		DB:        db,
		UploadDir: "uploaded_media",
	}
}

// GenerateRequestID generates a 24 character unique request ID
func (s *CheckService) GenerateRequestID() string {
	// Generate 12 random bytes (which will become 24 hex characters)
	randomBytes := make([]byte, 12)
	rand.Read(randomBytes)

	requestID := hex.EncodeToString(randomBytes)

	// Use last 6 characters of timestamp + 18 characters of random hex
	timestamp := time.Now().Unix()
	return fmt.Sprintf("%06x%s", timestamp&0xffffff, requestID[:18])
}

// CreateInitialRequest creates an initial check record in the database
func (s *CheckService) CreateInitialRequest(c *fiber.Ctx, requestID string, bookingID uint, originalFileName string, fileSize int64, mimeType, mediaKind string) (*checkModel.CheckRequest, error) {
	ipAddress := c.IP()
	if ipAddress == "" {
		ipAddress = "unknown"
	}
	userAgent := c.Get("User-Agent")

	request := &checkModel.CheckRequest{
		RequestID:        requestID,
		BookingID:        bookingID,
		OriginalFileName: originalFileName,
		FileSize:         fileSize,
		MimeType:         mimeType,
		MediaKind:        mediaKind,
		Status:           "processing",
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
	}

	if err := s.DB.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create initial request: %w", err)
	}

	return request, nil
}

// SaveFileAsync saves the uploaded media asynchronously
func (s *CheckService) SaveFileAsync(requestID string, fileBytes []byte, originalFileName string) {
	go func() {
		if err := s.saveFile(requestID, fileBytes, originalFileName); err != nil {
			logger.Error(fmt.Sprintf("Failed to save media for request %s", requestID), err)
		}
	}()
}

// saveFile saves the uploaded media to disk and updates the database record
func (s *CheckService) saveFile(requestID string, fileBytes []byte, originalFileName string) error {
	if err := s.ensureUploadDir(); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	hash := sha256.Sum256(fileBytes)
	fileHash := hex.EncodeToString(hash[:])

	ext := filepath.Ext(originalFileName)
	savedFileName := fmt.Sprintf("%s_%d%s", requestID, time.Now().Unix(), ext)
	filePath := filepath.Join(s.UploadDir, savedFileName)

	if err := os.WriteFile(filePath, fileBytes, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	updates := map[string]interface{}{
		"saved_file_name": savedFileName,
		"file_hash":       fileHash,
		"file_path":       filePath,
	}

	if err := s.DB.Model(&checkModel.CheckRequest{}).Where("request_id = ?", requestID).Updates(updates).Error; err != nil {
		// If database update fails, try to clean up the file
		os.Remove(filePath)
		return fmt.Errorf("failed to update request with file info: %w", err)
	}

	return nil
}

// SaveSuccessResultAsync saves the pipeline result asynchronously
func (s *CheckService) SaveSuccessResultAsync(requestID string, result *occupancy.Result, processingTime int64) {
	go func() {
		if err := s.saveSuccessResult(requestID, result, processingTime); err != nil {
			logger.Error(fmt.Sprintf("Failed to save success result for request %s", requestID), err)
		}
	}()
}

func (s *CheckService) saveSuccessResult(requestID string, result *occupancy.Result, processingTime int64) error {
	var request checkModel.CheckRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return fmt.Errorf("failed to find request: %w", err)
	}

	var alertID *uint
	if result.Alert != nil {
		alertID = &result.Alert.ID
	}

	discrepancy := result.Verdict.Status == occupancy.VerdictError
	if err := request.MarkAsSuccess(s.DB, result.ReservedCount, result.DetectedCount, result.FrameCount, discrepancy, alertID, processingTime); err != nil {
		return fmt.Errorf("failed to mark request as success: %w", err)
	}

	logger.Success(fmt.Sprintf("Occupancy check result saved for request %s", requestID))
	return nil
}

// SaveFailureResultAsync saves the failure result asynchronously
func (s *CheckService) SaveFailureResultAsync(requestID string, errorMsg string, processingTime int64) {
	go func() {
		if err := s.saveFailureResult(requestID, errorMsg, processingTime); err != nil {
			logger.Error(fmt.Sprintf("Failed to save failure result for request %s", requestID), err)
		}
	}()
}

func (s *CheckService) saveFailureResult(requestID string, errorMsg string, processingTime int64) error {
	var request checkModel.CheckRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return fmt.Errorf("failed to find request: %w", err)
	}

	if err := request.MarkAsFailed(s.DB, errorMsg, processingTime); err != nil {
		return fmt.Errorf("failed to mark request as failed: %w", err)
	}

	logger.Info(fmt.Sprintf("Failure result saved for request %s: %s", requestID, errorMsg))
	return nil
}

// ensureUploadDir creates the upload directory if it doesn't exist
func (s *CheckService) ensureUploadDir() error {
	if _, err := os.Stat(s.UploadDir); os.IsNotExist(err) {
		if err := os.MkdirAll(s.UploadDir, 0755); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Created upload directory: %s", s.UploadDir))
	}
	return nil
}

// GetRequestByID retrieves a check request by its request ID
func (s *CheckService) GetRequestByID(requestID string) (*checkModel.CheckRequest, error) {
	var request checkModel.CheckRequest
	if err := s.DB.Where("request_id = ?", requestID).First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// GetRequestsByStatus retrieves check requests by status
func (s *CheckService) GetRequestsByStatus(status string, limit int) ([]checkModel.CheckRequest, error) {
	var requests []checkModel.CheckRequest
	query := s.DB.Where("status = ?", status).Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

// CleanupOldFiles removes saved media older than the specified number of days
func (s *CheckService) CleanupOldFiles(daysOld int) error {
	cutoffDate := time.Now().AddDate(0, 0, -daysOld)

	var oldRequests []checkModel.CheckRequest
	if err := s.DB.Where("created_at < ? AND file_path != ''", cutoffDate).Find(&oldRequests).Error; err != nil {
		return err
	}

	for _, request := range oldRequests {
		if request.FilePath != "" {
			if err := os.Remove(request.FilePath); err != nil && !os.IsNotExist(err) {
				logger.Error(fmt.Sprintf("Failed to remove old file: %s", request.FilePath), err)
			} else {
				logger.Info(fmt.Sprintf("Removed old file: %s", request.FilePath))
			}
		}

		if err := s.DB.Model(&request).Update("file_path", "").Error; err != nil {
			logger.Error(fmt.Sprintf("Failed to clear file path for request %s", request.RequestID), err)
		}
	}

	return nil
}
