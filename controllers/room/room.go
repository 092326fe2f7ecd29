package room

import (
	"fmt"

	"minpaku-guard/database"
	"minpaku-guard/logger"
	roomModel "minpaku-guard/models/room"
	"minpaku-guard/types"
	roomTypes "minpaku-guard/types/room"
	"minpaku-guard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RoomController handles room-related HTTP requests
type RoomController struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

// NewRoomController creates a new room controller
func NewRoomController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *RoomController {
	return &RoomController{
		DB:     db,
		Logger: asyncLogger,
	}
}

func (rc *RoomController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	rc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (rc *RoomController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.logAPIRequest(c)
	return result
}

// Store registers a new room
func (rc *RoomController) Store(c *fiber.Ctx) error {
	var req roomTypes.RoomCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	created := roomModel.Room{
		Name:    req.Name,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := database.DB.Create(&created).Error; err != nil {
		logger.Error("Failed to create room", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save room",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Room created successfully with ID: %d", created.ID))

	return rc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Room created successfully",
		Data:    created,
	})
}

// Index lists all rooms
func (rc *RoomController) Index(c *fiber.Ctx) error {
	var rooms []roomModel.Room
	if err := database.DB.Order("id ASC").Find(&rooms).Error; err != nil {
		logger.Error("Failed to list rooms", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Rooms retrieved",
		Data:    rooms,
	})
}

// Show returns one room
func (rc *RoomController) Show(c *fiber.Ctx) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return rc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var found roomModel.Room
	err = database.DB.First(&found, id).Error
	if err == gorm.ErrRecordNotFound {
		return rc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Room not found",
			Data:    nil,
		})
	}
	if err != nil {
		logger.Error("Failed to load room", err)
		return rc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return rc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Room retrieved",
		Data:    found,
	})
}
