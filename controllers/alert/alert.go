package alert

import (
	"fmt"

	"minpaku-guard/logger"
	alertModel "minpaku-guard/models/alert"
	"minpaku-guard/storage"
	"minpaku-guard/types"
	"minpaku-guard/utils"

	"github.com/gofiber/fiber/v2"
)

// AlertController handles alert lifecycle HTTP requests
type AlertController struct {
	Store  storage.Store
	Logger *logger.AsyncLogger
}

// NewAlertController creates a new alert controller
func NewAlertController(store storage.Store, asyncLogger *logger.AsyncLogger) *AlertController {
	return &AlertController{
		Store:  store,
		Logger: asyncLogger,
	}
}

func (ac *AlertController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	ac.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (ac *AlertController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	ac.logAPIRequest(c)
	return result
}

// Index lists all alerts, newest detection first
func (ac *AlertController) Index(c *fiber.Ctx) error {
	alerts, err := ac.Store.ListAlerts()
	if err != nil {
		logger.Error("Failed to list alerts", err)
		return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Alerts retrieved",
		Data:    alerts,
	})
}

// Show returns one alert with its booking context
func (ac *AlertController) Show(c *fiber.Ctx) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	found, err := ac.Store.GetAlert(id)
	if err != nil {
		logger.Error("Failed to load alert", err)
		return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}
	if found == nil {
		return ac.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Alert not found",
			Data:    nil,
		})
	}

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Alert retrieved",
		Data:    found,
	})
}

// Acknowledge marks an alert as acknowledged by an operator
func (ac *AlertController) Acknowledge(c *fiber.Ctx) error {
	return ac.updateStatus(c, alertModel.AlertStatusAcknowledged)
}

// Resolve marks an alert as resolved
func (ac *AlertController) Resolve(c *fiber.Ctx) error {
	return ac.updateStatus(c, alertModel.AlertStatusResolved)
}

func (ac *AlertController) updateStatus(c *fiber.Ctx, status alertModel.AlertStatus) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return ac.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	updated, err := ac.Store.UpdateAlertStatus(id, status)
	if err != nil {
		logger.Error(fmt.Sprintf("Failed to update alert %d status", id), err)
		return ac.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update alert status",
			Data:    nil,
		})
	}
	if updated == nil {
		return ac.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Alert not found",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Alert %d marked as %s", updated.ID, status))

	return ac.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Alert marked as %s", status),
		Data:    updated,
	})
}
