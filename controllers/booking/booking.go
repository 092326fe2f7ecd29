package booking

import (
	"fmt"
	"time"

	"minpaku-guard/database"
	"minpaku-guard/logger"
	bookingModel "minpaku-guard/models/booking"
	guestModel "minpaku-guard/models/guest"
	roomModel "minpaku-guard/models/room"
	"minpaku-guard/services/booking_event"
	"minpaku-guard/types"
	bookingTypes "minpaku-guard/types/booking"
	"minpaku-guard/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Store creates a new booking for an existing guest and room
func (bc *BookingController) Store(c *fiber.Ctx) error {
	var req bookingTypes.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if err := req.Validate(); err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var created bookingModel.Booking

	// Use DB.Transaction for automatic rollback on error
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var g guestModel.Guest
		if err := tx.First(&g, req.GuestID).Error; err != nil {
			return fmt.Errorf("guest %d not found", req.GuestID)
		}

		var r roomModel.Room
		if err := tx.First(&r, req.RoomID).Error; err != nil {
			return fmt.Errorf("room %d not found", req.RoomID)
		}

		created = bookingModel.Booking{
			GuestID:       req.GuestID,
			RoomID:        req.RoomID,
			ReservedAt:    req.ReservedAtTime(),
			ReservedCount: req.ReservedCount,
			Status:        bookingModel.BookingStatusBooked,
			CreatedAt:     time.Now(),
		}

		if err := tx.Create(&created).Error; err != nil {
			logger.Error("Failed to create booking", err)
			return err
		}

		return booking_event.SnapshotBookingToEvent(tx, &created, "created")
	})

	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Booking created successfully with ID: %d", created.ID))

	// Load the complete booking data with relationships
	var loaded bookingModel.Booking
	if err := database.DB.Preload("Guest").Preload("Room").First(&loaded, created.ID).Error; err != nil {
		logger.Error("Failed to load created booking data", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Booking created but failed to retrieve complete data",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusCreated, types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Booking created successfully",
		Data:    loaded,
	})
}

// Index lists all bookings, newest reservation first
func (bc *BookingController) Index(c *fiber.Ctx) error {
	var bookings []bookingModel.Booking
	err := database.DB.Preload("Guest").Preload("Room").Order("reserved_at DESC").Find(&bookings).Error
	if err != nil {
		logger.Error("Failed to list bookings", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Bookings retrieved",
		Data:    bookings,
	})
}

// Today lists bookings whose reservation falls on the current day
func (bc *BookingController) Today(c *fiber.Ctx) error {
	dayStart, dayEnd := utils.DayBounds(time.Now())

	var bookings []bookingModel.Booking
	err := database.DB.Preload("Guest").Preload("Room").
		Where("reserved_at BETWEEN ? AND ?", dayStart, dayEnd).
		Order("reserved_at ASC").Find(&bookings).Error
	if err != nil {
		logger.Error("Failed to list today's bookings", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Today's bookings retrieved",
		Data:    bookings,
	})
}

// Show returns one booking with its guest and room
func (bc *BookingController) Show(c *fiber.Ctx) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var found bookingModel.Booking
	err = database.DB.Preload("Guest").Preload("Room").First(&found, id).Error
	if err == gorm.ErrRecordNotFound {
		return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Booking not found",
			Data:    nil,
		})
	}
	if err != nil {
		logger.Error("Failed to load booking", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Booking retrieved",
		Data:    found,
	})
}

// CheckIn transitions a booking to checked_in
func (bc *BookingController) CheckIn(c *fiber.Ctx) error {
	return bc.transition(c, bookingModel.BookingStatusCheckedIn, "checked in")
}

// CheckOut transitions a booking to checked_out
func (bc *BookingController) CheckOut(c *fiber.Ctx) error {
	return bc.transition(c, bookingModel.BookingStatusCheckedOut, "checked out")
}

// Cancel transitions a booking to canceled
func (bc *BookingController) Cancel(c *fiber.Ctx) error {
	return bc.transition(c, bookingModel.BookingStatusCanceled, "canceled")
}

// transition performs a guarded booking status change
func (bc *BookingController) transition(c *fiber.Ctx, target bookingModel.BookingStatus, verb string) error {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		return bc.sendResponseWithLog(c, fiber.StatusBadRequest, types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
			Data:    nil,
		})
	}

	var found bookingModel.Booking
	err = database.DB.First(&found, id).Error
	if err == gorm.ErrRecordNotFound {
		return bc.sendResponseWithLog(c, fiber.StatusNotFound, types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "Booking not found",
			Data:    nil,
		})
	}
	if err != nil {
		logger.Error("Failed to load booking", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}

	allowed := false
	switch target {
	case bookingModel.BookingStatusCheckedIn:
		allowed = found.Status.CanCheckIn()
	case bookingModel.BookingStatusCheckedOut:
		allowed = found.Status.CanCheckOut()
	case bookingModel.BookingStatusCanceled:
		allowed = found.Status.CanCancel()
	}
	if !allowed {
		return bc.sendResponseWithLog(c, fiber.StatusConflict, types.ApiResponse{
			Status:  fiber.StatusConflict,
			Message: fmt.Sprintf("Booking in status %s cannot be %s", found.Status, verb),
			Data:    nil,
		})
	}

	found.Status = target
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&found).Error; err != nil {
			return err
		}
		return booking_event.SnapshotBookingToEvent(tx, &found, string(target))
	})
	if err != nil {
		logger.Error("Failed to update booking status", err)
		return bc.sendResponseWithLog(c, fiber.StatusInternalServerError, types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to update booking status",
			Data:    nil,
		})
	}

	logger.Success(fmt.Sprintf("Booking %d %s", found.ID, verb))

	return bc.sendResponseWithLog(c, fiber.StatusOK, types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: fmt.Sprintf("Booking %s", verb),
		Data:    found,
	})
}
