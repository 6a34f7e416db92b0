package bookings

import (
	"time"

	"github.com/google/uuid"

	"aerobook/internal/flights"
)

// ProductType tags the booking variant. Only the flight variant carries
// engine-managed inventory; the others exist for ledger completeness and are
// handled by external collaborators.
type ProductType string

const (
	ProductFlight ProductType = "flight"
	ProductTour   ProductType = "tour"
	ProductTaxi   ProductType = "taxi"
	ProductPark   ProductType = "park"
	ProductHotel  ProductType = "hotel"
)

// IsValid checks if the product type is known
func (p ProductType) IsValid() bool {
	switch p {
	case ProductFlight, ProductTour, ProductTaxi, ProductPark, ProductHotel:
		return true
	}
	return false
}

// FlightDetails carries the flight-variant fields of a booking: a route and
// schedule echo frozen at commit time plus the inventory reference.
type FlightDetails struct {
	FlightID     *uuid.UUID `gorm:"type:uuid;index" json:"flight_id,omitempty"`
	Airline      string     `json:"airline,omitempty"`
	FlightNumber string     `json:"flight_number,omitempty"`
	FromCode     string     `json:"from_code,omitempty"`
	FromCity     string     `json:"from_city,omitempty"`
	ToCode       string     `json:"to_code,omitempty"`
	ToCity       string     `json:"to_city,omitempty"`
	DepartureAt  *time.Time `json:"departure_at,omitempty"`
	ArrivalAt    *time.Time `json:"arrival_at,omitempty"`
	SeatClass    string     `json:"seat_class,omitempty"`
}

// Booking is the ledger entry. TotalPrice is the sum of the committed seats'
// prices at booking time and never changes afterwards; refunds and price
// changes are separate events. Bookings are never deleted, only
// status-transitioned.
type Booking struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID     `gorm:"type:uuid;index;not null" json:"user_id"`
	ProductType ProductType   `gorm:"type:varchar(10);not null;check:product_type IN ('flight', 'tour', 'taxi', 'park', 'hotel')" json:"product_type"`
	BookingRef  string        `gorm:"unique;not null" json:"booking_ref"`
	TotalPrice  float64       `gorm:"not null;check:total_price >= 0" json:"total_price"`
	Currency    string        `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	Status      Status        `gorm:"type:varchar(20);check:status IN ('pending', 'confirmed', 'cancelled', 'completed');default:'pending'" json:"status"`
	Payment     PaymentStatus `gorm:"column:payment_status;type:varchar(20);check:payment_status IN ('pending', 'paid', 'failed', 'refunded');default:'pending'" json:"payment_status"`
	PaymentMeth string        `gorm:"column:payment_method;type:varchar(50)" json:"payment_method,omitempty"`
	PaymentRef  string        `json:"payment_ref,omitempty"`

	Flight FlightDetails `gorm:"embedded;embeddedPrefix:flight_" json:"flight,omitempty"`

	// Transition audit: actor and timestamp per transition
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty"`
	ConfirmedBy        *uuid.UUID `gorm:"type:uuid" json:"confirmed_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy        *uuid.UUID `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	CompletedBy        *uuid.UUID `gorm:"type:uuid" json:"completed_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	BookedSeats []BookedSeat `json:"booked_seats,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
	Passengers  []Passenger  `json:"passengers,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE;"`
}

// BookedSeat records one reserved seat with its price-at-commit-time
type BookedSeat struct {
	ID         uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID  uuid.UUID          `gorm:"type:uuid;index;not null" json:"booking_id"`
	SeatID     uuid.UUID          `gorm:"type:uuid;index;not null" json:"seat_id"`
	SeatNumber string             `gorm:"not null" json:"seat_number"`
	Class      flights.CabinClass `gorm:"type:varchar(10)" json:"class"`
	SeatPrice  float64            `gorm:"not null" json:"seat_price"`
	CreatedAt  time.Time          `json:"created_at"`
}

// Passenger records the traveller details attached to a flight booking
type Passenger struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"booking_id"`
	FirstName      string     `gorm:"not null" json:"first_name"`
	LastName       string     `gorm:"not null" json:"last_name"`
	DateOfBirth    *time.Time `json:"date_of_birth,omitempty"`
	PassportNumber string     `json:"passport_number,omitempty"`
	Nationality    string     `json:"nationality,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for BookedSeat
func (BookedSeat) TableName() string {
	return "booked_seats"
}

// TableName sets the table name for Passenger
func (Passenger) TableName() string {
	return "passengers"
}

// SeatIDs returns the inventory seat IDs this booking holds
func (b *Booking) SeatIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(b.BookedSeats))
	for i := range b.BookedSeats {
		ids = append(ids, b.BookedSeats[i].SeatID)
	}
	return ids
}
