package flights

import (
	"time"

	"github.com/google/uuid"
)

// CabinClass partitions seats and pricing
type CabinClass string

const (
	ClassEconomy  CabinClass = "economy"
	ClassBusiness CabinClass = "business"
	ClassFirst    CabinClass = "first"
)

// CabinClasses lists all cabin classes in display order
var CabinClasses = []CabinClass{ClassEconomy, ClassBusiness, ClassFirst}

// IsValid checks if the cabin class is one of the known classes
func (c CabinClass) IsValid() bool {
	switch c {
	case ClassEconomy, ClassBusiness, ClassFirst:
		return true
	}
	return false
}

func (c CabinClass) String() string {
	return string(c)
}

// Endpoint describes one end of a route
type Endpoint struct {
	Code    string `gorm:"type:varchar(8);not null" json:"code"`
	City    string `json:"city"`
	Airport string `json:"airport"`
}

// Flight defines the flight schedule plus its seat map. The seat map is owned
// exclusively by the inventory store; booked flags change only through
// CommitSeats/ReleaseSeats. Version is the optimistic-concurrency stamp:
// every successful seat commit bumps it, and commits carrying a stale
// expected version are rejected.
type Flight struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Airline      string    `gorm:"not null" json:"airline"`
	FlightNumber string    `gorm:"not null;index" json:"flight_number"`
	From         Endpoint  `gorm:"embedded;embeddedPrefix:from_" json:"from"`
	To           Endpoint  `gorm:"embedded;embeddedPrefix:to_" json:"to"`
	DepartureAt  time.Time `gorm:"not null;index" json:"departure_at"`
	ArrivalAt    time.Time `gorm:"not null" json:"arrival_at"`
	Duration     int       `gorm:"not null" json:"duration"` // minutes
	Version      int64     `gorm:"not null;default:0" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Seats []Seat `json:"seats,omitempty" gorm:"foreignKey:FlightID;constraint:OnDelete:CASCADE;"`
}

// Seat defines an individual seat on a flight
type Seat struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FlightID   uuid.UUID  `gorm:"type:uuid;index;not null;uniqueIndex:idx_flight_seat" json:"flight_id"`
	SeatNumber string     `gorm:"not null;uniqueIndex:idx_flight_seat" json:"seat_number"`
	Class      CabinClass `gorm:"type:varchar(10);check:class IN ('economy', 'business', 'first');default:'economy'" json:"class"`
	Price      float64    `gorm:"not null;check:price > 0" json:"price"`
	IsBooked   bool       `gorm:"not null;default:false" json:"is_booked"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName sets the table name for Flight
func (Flight) TableName() string {
	return "flights"
}

// TableName sets the table name for Seat
func (Seat) TableName() string {
	return "seats"
}

// HasDeparted checks whether the flight departure is at or before now
func (f *Flight) HasDeparted(now time.Time) bool {
	return !f.DepartureAt.After(now)
}

// SeatByID returns the seat with the given ID, or nil
func (f *Flight) SeatByID(id uuid.UUID) *Seat {
	for i := range f.Seats {
		if f.Seats[i].ID == id {
			return &f.Seats[i]
		}
	}
	return nil
}

// Route returns a human-readable route description
func (f *Flight) Route() string {
	return f.From.City + " (" + f.From.Code + ") → " + f.To.City + " (" + f.To.Code + ")"
}
