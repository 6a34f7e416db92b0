package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"aerobook/internal/flights"
	"aerobook/internal/search"
	"aerobook/internal/shared/config"
	"aerobook/internal/shared/database"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("Starting AeroBook inventory seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("Database cleaned")

	fmt.Println("Seeding flight inventory...")
	count, err := seeder.SeedFlights()
	if err != nil {
		log.Fatalf("Failed to seed flights: %v", err)
	}
	fmt.Printf("Seeded %d flights. Inventory is ready for testing.\n", count)
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"passengers",
		"booked_seats",
		"bookings",
		"seats",
		"flights",
	}

	pg := s.db.GetPostgreSQL()
	for _, table := range tables {
		if err := pg.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

type routeSpec struct {
	airline      string
	flightNumber string
	fromCode     string
	toCode       string
	departHour   int
	durationMins int
	economyPrice float64
}

// SeedFlights loads one week of departures across a handful of routes
func (s *Seeder) SeedFlights() (int, error) {
	routes := []routeSpec{
		{"British Airways", "BA78", "ACC", "LHR", 22, 400, 520},
		{"Emirates", "EK788", "ACC", "DXB", 18, 490, 610},
		{"Delta Airlines", "DL157", "ACC", "JFK", 9, 660, 780},
		{"KLM", "KL590", "ACC", "AMS", 21, 410, 495},
		{"Lufthansa", "LH565", "ACC", "FRA", 20, 420, 540},
		{"British Airways", "BA77", "LHR", "ACC", 11, 395, 505},
		{"Qatar Airways", "QR1423", "DXB", "ACC", 7, 500, 590},
		{"United Airlines", "UA996", "JFK", "LHR", 19, 425, 450},
	}

	store := flights.NewStore(s.db.GetPostgreSQL())
	firstDay := time.Now().UTC().Truncate(24 * time.Hour).Add(48 * time.Hour)

	count := 0
	for day := 0; day < 7; day++ {
		for _, r := range routes {
			departure := firstDay.AddDate(0, 0, day).Add(time.Duration(r.departHour) * time.Hour)
			flight := &flights.Flight{
				Airline:      r.airline,
				FlightNumber: r.flightNumber,
				From: flights.Endpoint{
					Code:    r.fromCode,
					City:    search.AirportCity(r.fromCode),
					Airport: search.AirportName(r.fromCode),
				},
				To: flights.Endpoint{
					Code:    r.toCode,
					City:    search.AirportCity(r.toCode),
					Airport: search.AirportName(r.toCode),
				},
				DepartureAt: departure,
				ArrivalAt:   departure.Add(time.Duration(r.durationMins) * time.Minute),
				Duration:    r.durationMins,
				Seats:       buildSeatMap(r.economyPrice),
			}

			if err := store.CreateFlight(context.Background(), flight); err != nil {
				return count, fmt.Errorf("create %s %s: %w", r.flightNumber, departure.Format("2006-01-02"), err)
			}
			count++
		}
	}

	return count, nil
}

// buildSeatMap lays out a small single-aisle cabin: 2 first rows, 3 business
// rows, 20 economy rows.
func buildSeatMap(economyPrice float64) []flights.Seat {
	seats := make([]flights.Seat, 0, 150)

	addRow := func(row int, letters string, class flights.CabinClass, price float64) {
		for _, letter := range letters {
			seats = append(seats, flights.Seat{
				SeatNumber: fmt.Sprintf("%d%c", row, letter),
				Class:      class,
				Price:      price,
			})
		}
	}

	row := 1
	for ; row <= 2; row++ {
		addRow(row, "AF", flights.ClassFirst, economyPrice*4)
	}
	for ; row <= 5; row++ {
		addRow(row, "ACDF", flights.ClassBusiness, economyPrice*2.2)
	}
	for ; row <= 25; row++ {
		addRow(row, "ABCDEF", flights.ClassEconomy, economyPrice)
	}

	return seats
}
