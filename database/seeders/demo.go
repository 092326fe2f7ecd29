package seeders

import (
	"log"
	"time"

	"minpaku-guard/models/booking"
	"minpaku-guard/models/guest"
	"minpaku-guard/models/room"

	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

// SeedDemoData inserts a small set of demo guests, rooms and bookings so the
// occupancy pipeline can be exercised against a fresh database.
func SeedDemoData(db *gorm.DB) error {
	log.Printf("🔍 Checking demo data integrity...")

	var bookingCount int64
	if err := db.Model(&booking.Booking{}).Count(&bookingCount).Error; err != nil {
		log.Printf("❌ Failed to count bookings: %v", err)
		return err
	}
	if bookingCount > 0 {
		log.Printf("✅ Demo data already present (%d bookings). No seeding needed.", bookingCount)
		return nil
	}

	log.Printf("🌱 Seeding demo guests, rooms and bookings...")

	guests := []guest.Guest{
		{FullName: "田中太郎", FaceImageURL: strPtr("https://api.dicebear.com/7.x/avataaars/svg?seed=Tanaka")},
		{FullName: "佐藤花子", FaceImageURL: strPtr("https://api.dicebear.com/7.x/avataaars/svg?seed=Sato")},
		{FullName: "山田次郎", FaceImageURL: strPtr("https://api.dicebear.com/7.x/avataaars/svg?seed=Yamada")},
	}
	rooms := []room.Room{
		{Name: "漁師町の民家"},
		{Name: "長屋1号室"},
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range guests {
			if err := tx.Create(&guests[i]).Error; err != nil {
				return err
			}
		}
		for i := range rooms {
			if err := tx.Create(&rooms[i]).Error; err != nil {
				return err
			}
		}

		bookings := []booking.Booking{
			{
				GuestID:       guests[0].ID,
				RoomID:        rooms[0].ID,
				ReservedAt:    time.Date(2024, 10, 15, 14, 0, 0, 0, time.UTC),
				ReservedCount: 4,
				Status:        booking.BookingStatusCheckedIn,
			},
			{
				GuestID:       guests[1].ID,
				RoomID:        rooms[1].ID,
				ReservedAt:    time.Date(2024, 10, 16, 15, 0, 0, 0, time.UTC),
				ReservedCount: 2,
				Status:        booking.BookingStatusBooked,
			},
			{
				GuestID:       guests[2].ID,
				RoomID:        rooms[0].ID,
				ReservedAt:    time.Date(2024, 10, 17, 16, 0, 0, 0, time.UTC),
				ReservedCount: 3,
				Status:        booking.BookingStatusCheckedIn,
			},
		}
		for i := range bookings {
			if err := tx.Create(&bookings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("❌ Failed to seed demo data: %v", err)
		return err
	}

	log.Printf("🎉 Seeding completed! Inserted %d guests, %d rooms, 3 bookings", len(guests), len(rooms))
	return nil
}
