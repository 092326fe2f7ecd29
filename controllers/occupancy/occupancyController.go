package occupancy

import (
	"minpaku-guard/logger"
	occupancyService "minpaku-guard/services/occupancy"
	"minpaku-guard/types"
	"minpaku-guard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CheckController handles occupancy check HTTP requests
type CheckController struct {
	DB       *gorm.DB
	Logger   *logger.AsyncLogger
	Pipeline *occupancyService.Pipeline
}

// NewCheckController creates a new occupancy check controller
func NewCheckController(db *gorm.DB, asyncLogger *logger.AsyncLogger, pipeline *occupancyService.Pipeline) *CheckController {
	return &CheckController{
		DB:       db,
		Logger:   asyncLogger,
		Pipeline: pipeline,
	}
}

func (oc *CheckController) logAPIRequest(c *fiber.Ctx) {
	logEntry := utils.CreateSanitizedLogEntry(c)
	oc.Logger.Log(logEntry)
}

// Helper function to send response and log in one call
func (oc *CheckController) sendResponseWithLog(c *fiber.Ctx, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	oc.logAPIRequest(c)
	return result
}

// mediaKind maps a content type to "photo" or "video"; empty means unsupported
func mediaKind(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
		return "photo"
	case "video/mp4", "video/quicktime", "video/webm":
		return "video"
	default:
		return ""
	}
}

// statusForPipelineError maps the pipeline error taxonomy to HTTP statuses
func statusForPipelineError(err error) int {
	switch {
	case occupancyService.IsKind(err, occupancyService.KindInvalidInput):
		return fiber.StatusBadRequest
	case occupancyService.IsKind(err, occupancyService.KindExtractionFailed):
		return fiber.StatusUnprocessableEntity
	case occupancyService.IsKind(err, occupancyService.KindEstimationUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
