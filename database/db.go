package database

import (
	"fmt"
	"os"

	"minpaku-guard/logger"
	"minpaku-guard/models/alert"
	"minpaku-guard/models/booking"
	"minpaku-guard/models/guest"
	"minpaku-guard/models/log"
	"minpaku-guard/models/occupancy_check"
	"minpaku-guard/models/room"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	// Get database configuration from environment variables
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	// Set default sslmode if not provided
	if sslmode == "" {
		sslmode = "disable"
	}

	// Build PostgreSQL DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	// Handle foreign key constraints after migrations
	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	// Create indexes for better performance
	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models
func autoMigrate() error {
	// Stage 1: Core foundation models
	stage1Models := []interface{}{
		&guest.Guest{},
		&room.Room{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: Models with dependencies on Stage 1
	stage2Models := []interface{}{
		&booking.Booking{},
		&booking.BookingEvent{},
		&alert.Alert{},
		&occupancy_check.CheckRequest{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: Remaining models
	remainingModels := []interface{}{
		// Logging
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// Booking indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_guest_id ON bookings(guest_id)").Error; err != nil {
		return fmt.Errorf("failed to create booking guest_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_room_id ON bookings(room_id)").Error; err != nil {
		return fmt.Errorf("failed to create booking room_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)").Error; err != nil {
		return fmt.Errorf("failed to create booking status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_reserved_at ON bookings(reserved_at)").Error; err != nil {
		return fmt.Errorf("failed to create booking reserved_at index: %w", err)
	}

	// Alert indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_alerts_booking_id ON alerts(booking_id)").Error; err != nil {
		return fmt.Errorf("failed to create alert booking_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_alerts_status ON alerts(status)").Error; err != nil {
		return fmt.Errorf("failed to create alert status index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_alerts_detected_at ON alerts(detected_at)").Error; err != nil {
		return fmt.Errorf("failed to create alert detected_at index: %w", err)
	}

	// Occupancy check indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_occupancy_check_requests_booking_id ON occupancy_check_requests(booking_id)").Error; err != nil {
		return fmt.Errorf("failed to create occupancy check booking_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_occupancy_check_requests_status ON occupancy_check_requests(status)").Error; err != nil {
		return fmt.Errorf("failed to create occupancy check status index: %w", err)
	}

	// Log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)").Error; err != nil {
		return fmt.Errorf("failed to create log method index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)").Error; err != nil {
		return fmt.Errorf("failed to create log status_code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	// Define constraints with their names for checking existence
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_bookings_guest",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_guest
				  FOREIGN KEY (guest_id) REFERENCES guests(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_bookings_room",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_room
				  FOREIGN KEY (room_id) REFERENCES rooms(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_alerts_booking",
			sql: `ALTER TABLE alerts ADD CONSTRAINT fk_alerts_booking
				  FOREIGN KEY (booking_id) REFERENCES bookings(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
	}

	for _, constraint := range constraints {
		// Check if constraint already exists
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := DB.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		} else {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
