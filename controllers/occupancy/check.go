package occupancy

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"minpaku-guard/database"
	"minpaku-guard/logger"
	occupancyService "minpaku-guard/services/occupancy"
	checkService "minpaku-guard/services/occupancy_check"
	"minpaku-guard/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Uploaded media may be a short video clip, so allow more than a photo would need
const maxMediaSize = int64(50 * 1024 * 1024) // 50MB

// RunCheck handles a photo/video upload for a booking and runs the occupancy
// discrepancy pipeline against it
func (oc *CheckController) RunCheck(c *fiber.Ctx) error {
	startTime := time.Now()

	service := checkService.NewCheckService(database.DB)
	requestID := service.GenerateRequestID()

	bookingID, err := strconv.ParseUint(c.FormValue("booking_id"), 10, 64)
	if err != nil || bookingID == 0 {
		logger.Error(fmt.Sprintf("Missing or invalid booking_id for request %s", requestID), err)

		return oc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "A valid booking_id is required",
			Status:  fiber.StatusBadRequest,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	file, err := c.FormFile("media")
	if err != nil {
		logger.Error(fmt.Sprintf("No media file provided for request %s", requestID), err)

		return oc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "No media file provided",
			Status:  fiber.StatusBadRequest,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	mimeType := file.Header.Get("Content-Type")
	kind := mediaKind(mimeType)
	if kind == "" {
		logger.Error(fmt.Sprintf("Invalid media type %s for request %s", mimeType, requestID),
			fmt.Errorf("invalid mime type: %s", mimeType))

		return oc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid media type. Only JPEG, PNG, WebP images and MP4, QuickTime, WebM videos are allowed",
			Status:  fiber.StatusBadRequest,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	if file.Size > maxMediaSize {
		logger.Error(fmt.Sprintf("File size %d exceeds max %d for request %s", file.Size, maxMediaSize, requestID),
			fmt.Errorf("file size %d exceeds max %d", file.Size, maxMediaSize))

		return oc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "File size too large. Maximum size is 50MB",
			Status:  fiber.StatusBadRequest,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	// Optional sampling interval override for video uploads
	interval := 0.0
	if raw := c.FormValue("interval_seconds"); raw != "" {
		interval, err = strconv.ParseFloat(raw, 64)
		if err != nil || interval <= 0 {
			return oc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
				Message: "interval_seconds must be a positive number",
				Status:  fiber.StatusBadRequest,
				Data:    map[string]interface{}{"request_id": requestID},
			})
		}
	}

	_, err = service.CreateInitialRequest(c, requestID, uint(bookingID), file.Filename, file.Size, mimeType, kind)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to create initial request %s", requestID), err)

		return oc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Failed to initialize request",
			Status:  fiber.StatusInternalServerError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	src, err := file.Open()
	if err != nil {
		processingTime := time.Since(startTime).Milliseconds()
		service.SaveFailureResultAsync(requestID, "Failed to open uploaded file", processingTime)

		logger.Error(fmt.Sprintf("Failed to open uploaded file for request %s", requestID), err)

		return oc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Failed to process uploaded file",
			Status:  fiber.StatusInternalServerError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}
	defer src.Close()

	fileBytes, err := io.ReadAll(src)
	if err != nil {
		processingTime := time.Since(startTime).Milliseconds()
		service.SaveFailureResultAsync(requestID, "Failed to read file content", processingTime)

		logger.Error(fmt.Sprintf("Failed to read file content for request %s", requestID), err)

		return oc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Failed to read file content",
			Status:  fiber.StatusInternalServerError,
			Data:    map[string]interface{}{"request_id": requestID},
		})
	}

	// Start async file saving
	service.SaveFileAsync(requestID, fileBytes, file.Filename)

	result, err := oc.Pipeline.Run(c.UserContext(), occupancyService.Input{
		BookingID:       uint(bookingID),
		Media:           fileBytes,
		MimeType:        mimeType,
		IntervalSeconds: interval,
	})
	if err != nil {
		processingTime := time.Since(startTime).Milliseconds()
		service.SaveFailureResultAsync(requestID, err.Error(), processingTime)

		logger.Error(fmt.Sprintf("Occupancy check failed for request %s", requestID), err)

		status := statusForPipelineError(err)
		return oc.sendResponseWithLog(c, status, types.ApiResponse{
			Message: "Occupancy check failed",
			Status:  status,
			Data: map[string]interface{}{
				"error":      err.Error(),
				"request_id": requestID,
			},
		})
	}

	processingTime := time.Since(startTime).Milliseconds()
	service.SaveSuccessResultAsync(requestID, result, processingTime)

	logger.Success(fmt.Sprintf("Occupancy check completed in %dms for booking %d: %s, Request ID: %s",
		processingTime, result.BookingID, result.Verdict.Status, requestID))

	return oc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Occupancy check completed",
		Data: map[string]interface{}{
			"request_id": requestID,
			"result":     result,
		},
	})
}

// ListCheckRequests lists recent check runs filtered by processing status
func (oc *CheckController) ListCheckRequests(c *fiber.Ctx) error {
	status := c.Query("status", "processing")
	switch status {
	case "processing", "success", "failed":
	default:
		return oc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "status must be one of: processing, success, failed",
			Status:  fiber.StatusBadRequest,
			Data:    nil,
		})
	}

	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		return oc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "limit must be between 1 and 200",
			Status:  fiber.StatusBadRequest,
			Data:    nil,
		})
	}

	service := checkService.NewCheckService(database.DB)
	requests, err := service.GetRequestsByStatus(status, limit)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to list check requests with status %s", status), err)
		return oc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
			Data:    nil,
		})
	}

	return oc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Check requests retrieved",
		Data: map[string]interface{}{
			"status":   status,
			"count":    len(requests),
			"requests": requests,
		},
	})
}

// GetCheckRequest returns the lifecycle record of one occupancy check run
func (oc *CheckController) GetCheckRequest(c *fiber.Ctx) error {
	requestID := c.Params("requestId")
	if requestID == "" {
		return oc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Message: "requestId parameter is required",
			Status:  fiber.StatusBadRequest,
			Data:    nil,
		})
	}

	service := checkService.NewCheckService(database.DB)
	request, err := service.GetRequestByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return oc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
				Message: "Check request not found",
				Status:  fiber.StatusNotFound,
				Data:    nil,
			})
		}
		logger.Error(fmt.Sprintf("Failed to load check request %s", requestID), err)
		return oc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Database error",
			Status:  fiber.StatusInternalServerError,
			Data:    nil,
		})
	}

	return oc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Check request retrieved",
		Data:    request,
	})
}
