package routes

import (
	"os"
	"strconv"
	"time"

	"minpaku-guard/controllers/alert"
	"minpaku-guard/controllers/booking"
	"minpaku-guard/controllers/demo"
	"minpaku-guard/controllers/guest"
	"minpaku-guard/controllers/occupancy"
	"minpaku-guard/controllers/room"
	httpServices "minpaku-guard/httpServices/dify"
	"minpaku-guard/logger"
	"minpaku-guard/services/frames"
	occupancyService "minpaku-guard/services/occupancy"
	occupancyCheckService "minpaku-guard/services/occupancy_check"
	"minpaku-guard/services/vision"
	"minpaku-guard/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	asyncLogger := logger.NewAsyncLogger(db)
	store := storage.NewGormStore(db)
	difyClient := httpServices.NewClient(os.Getenv("DIFY_API_URL"), os.Getenv("DIFY_API_KEY"))

	pipeline := &occupancyService.Pipeline{
		Extractor: frames.NewExtractor(),
		Counter:   vision.NewGeminiCounter(),
		Store:     store,
	}
	if difyClient.Configured() {
		pipeline.Workflow = difyClient
	} else {
		logger.Warning("Dify API credentials not set, workflow forwarding disabled")
	}

	guestController := guest.NewGuestController(db, asyncLogger)
	roomController := room.NewRoomController(db, asyncLogger)
	bookingController := booking.NewBookingController(db, asyncLogger)
	alertController := alert.NewAlertController(store, asyncLogger)
	checkController := occupancy.NewCheckController(db, asyncLogger, pipeline)
	demoController := demo.NewDemoController(difyClient, asyncLogger)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Periodically drop saved check media past its retention window
	go runMediaCleanup(db)

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "minpaku-guard",
			"status":  "ok",
		})
	})

	api := app.Group("/api")

	/*=============================================================================
	| Guest Routes
	===============================================================================*/
	guestGroup := api.Group("/guests")
	guestGroup.Post("/", guestController.Store)
	guestGroup.Get("/", guestController.Index)
	guestGroup.Get("/:id", guestController.Show)

	/*=============================================================================
	| Room Routes
	===============================================================================*/
	roomGroup := api.Group("/rooms")
	roomGroup.Post("/", roomController.Store)
	roomGroup.Get("/", roomController.Index)
	roomGroup.Get("/:id", roomController.Show)

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	bookingGroup := api.Group("/bookings")
	bookingGroup.Post("/", bookingController.Store)
	bookingGroup.Get("/", bookingController.Index)
	bookingGroup.Get("/today", bookingController.Today)
	bookingGroup.Get("/:id", bookingController.Show)
	bookingGroup.Post("/:id/check-in", bookingController.CheckIn)
	bookingGroup.Post("/:id/check-out", bookingController.CheckOut)
	bookingGroup.Post("/:id/cancel", bookingController.Cancel)

	/*=============================================================================
	| Alert Routes
	===============================================================================*/
	alertGroup := api.Group("/alerts")
	alertGroup.Get("/", alertController.Index)
	alertGroup.Get("/:id", alertController.Show)
	alertGroup.Post("/:id/acknowledge", alertController.Acknowledge)
	alertGroup.Post("/:id/resolve", alertController.Resolve)

	/*=============================================================================
	| Occupancy Check Routes
	===============================================================================*/
	occupancyGroup := api.Group("/occupancy")
	occupancyGroup.Post("/check", checkController.RunCheck)
	occupancyGroup.Get("/checks", checkController.ListCheckRequests)
	occupancyGroup.Get("/checks/:requestId", checkController.GetCheckRequest)

	/*=============================================================================
	| Demo Routes
	===============================================================================*/
	demoGroup := api.Group("/demo")
	demoGroup.Post("/trigger-dify", demoController.TriggerDify)
}

const defaultMediaRetentionDays = 7

// runMediaCleanup removes saved check media older than the retention window,
// once at startup and then daily
func runMediaCleanup(db *gorm.DB) {
	retentionDays := defaultMediaRetentionDays
	if raw := os.Getenv("MEDIA_RETENTION_DAYS"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			retentionDays = parsed
		}
	}

	service := occupancyCheckService.NewCheckService(db)
	for {
		if err := service.CleanupOldFiles(retentionDays); err != nil {
			logger.Error("Failed to clean up old check media", err)
		}
		time.Sleep(24 * time.Hour)
	}
}
