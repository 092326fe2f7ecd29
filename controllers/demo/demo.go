package demo

import (
	httpServices "minpaku-guard/httpServices/dify"
	"minpaku-guard/logger"
	"minpaku-guard/types"
	demoType "minpaku-guard/types/demo"
	"minpaku-guard/utils"

	"github.com/gofiber/fiber/v2"
)

// DemoController exposes manual triggers for external integrations
type DemoController struct {
	Dify   *httpServices.DifyClient
	Logger *logger.AsyncLogger
}

// NewDemoController creates a new demo controller
func NewDemoController(dify *httpServices.DifyClient, asyncLogger *logger.AsyncLogger) *DemoController {
	return &DemoController{
		Dify:   dify,
		Logger: asyncLogger,
	}
}

func (dc *DemoController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	dc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (dc *DemoController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	dc.logAPIRequest(c)
	return result
}

// TriggerDify forwards an arbitrary discrepancy payload to the Dify
// workflow so operators can verify the integration without running a
// full occupancy check.
func (dc *DemoController) TriggerDify(c *fiber.Ctx) error {
	if dc.Dify == nil || !dc.Dify.Configured() {
		return dc.sendResponseWithLog(c, fiber.StatusServiceUnavailable, types.ApiResponse{
			Status:  fiber.StatusServiceUnavailable,
			Message: "Dify API credentials are not configured",
			Data:    nil,
		})
	}

	var req demoType.DifyTriggerRequest
	if err := c.BodyParser(&req); err != nil {
		return dc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if err := req.Validate(); err != nil {
		return dc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	resp, err := dc.Dify.RunWorkflow(*req.HasDiscrepancy, req.ReservedCount, req.DetectedCount, req.BookingName)
	if err != nil {
		logger.Error("Dify workflow trigger failed", err)
		return dc.sendResponseWithLog(c, fiber.StatusBadGateway, types.ApiResponse{
			Status:  fiber.StatusBadGateway,
			Message: "Dify workflow execution failed",
			Data:    fiber.Map{"error": err.Error()},
		})
	}

	logger.Success("Dify workflow triggered manually")

	return dc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Dify workflow executed",
		Data:    resp,
	})
}
