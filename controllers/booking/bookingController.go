package booking

import (
	"minpaku-guard/logger"
	"minpaku-guard/types"
	"minpaku-guard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// BookingController handles booking-related HTTP requests
type BookingController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewBookingController creates a new booking controller
func NewBookingController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *BookingController {
	return &BookingController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (bc *BookingController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	bc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (bc *BookingController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	bc.logAPIRequest(c)
	return result
}
