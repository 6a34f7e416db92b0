package database

import (
	"fmt"
	"log"

	"aerobook/internal/bookings"
	"aerobook/internal/flights"

	"gorm.io/gorm"
)

// Migrate runs schema migrations for the booking engine tables
func Migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults need the extension
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("create uuid extension: %w", err)
	}

	err := db.AutoMigrate(
		&flights.Flight{},
		&flights.Seat{},
		&bookings.Booking{},
		&bookings.BookedSeat{},
		&bookings.Passenger{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}
