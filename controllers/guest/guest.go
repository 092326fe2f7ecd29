package guest

import (
	"fmt"

	"minpaku-guard/database"
	"minpaku-guard/logger"
	guestModel "minpaku-guard/models/guest"
	"minpaku-guard/types"
	guestTypes "minpaku-guard/types/guest"
	"minpaku-guard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GuestController handles guest-related HTTP requests
type GuestController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewGuestController creates a new guest controller
func NewGuestController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *GuestController {
	return &GuestController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (gc *GuestController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	gc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (gc *GuestController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	gc.logAPIRequest(c)
	return result
}

// Store registers a new guest
func (gc *GuestController) Store(c *fiber.Ctx) error {
	var req guestTypes.GuestCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return gc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return gc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	created := guestModel.Guest{
		FullName:        req.FullName,
		Age:             req.Age,
		Phone:           req.Phone,
		Email:           req.Email,
		LicenseImageURL: req.LicenseImageURL,
		FaceImageURL:    req.FaceImageURL,
	}

	if err := database.DB.Create(&created).Error; err != nil {
		logger.Error("Failed to create guest", err)
		return gc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save guest",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Guest created successfully with ID: %d", created.ID))

	return gc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Guest created successfully",
		Data:    created,
	})
}

// Index lists all guests
func (gc *GuestController) Index(c *fiber.Ctx) error {
	var guests []guestModel.Guest
	if err := database.DB.Order("id ASC").Find(&guests).Error; err != nil {
		logger.Error("Failed to list guests", err)
		return gc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return gc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Guests retrieved",
		Data:    guests,
	})
}

// Show returns one guest
func (gc *GuestController) Show(c *fiber.Ctx) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return gc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var found guestModel.Guest
	err = database.DB.First(&found, id).Error
	if err == gorm.ErrRecordNotFound {
		return gc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Guest not found",
			Data:    nil,
		})
	}
	if err != nil {
		logger.Error("Failed to load guest", err)
		return gc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return gc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Guest retrieved",
		Data:    found,
	})
}
