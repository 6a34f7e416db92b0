package flights

import (
	"time"
)

// FlightSummaryResponse is the list view of a flight: availability summary
// instead of the full seat map.
type FlightSummaryResponse struct {
	ID                  string                           `json:"id"`
	Airline             string                           `json:"airline"`
	FlightNumber        string                           `json:"flight_number"`
	From                Endpoint                         `json:"from"`
	To                  Endpoint                         `json:"to"`
	DepartureAt         time.Time                        `json:"departure_at"`
	ArrivalAt           time.Time                        `json:"arrival_at"`
	Duration            int                              `json:"duration"`
	SeatsByClass        map[CabinClass]ClassAvailability `json:"seats_by_class"`
	TotalAvailableSeats int                              `json:"total_available_seats"`
	AvailableSeats      []Seat                           `json:"available_seats"`
}

// FlightListResponse wraps a paginated flight list
type FlightListResponse struct {
	Count   int                     `json:"count"`
	Total   int64                   `json:"total"`
	Page    int                     `json:"page"`
	Pages   int                     `json:"pages"`
	Flights []FlightSummaryResponse `json:"flights"`
}

// SeatMapResponse is the grouped seat map for one flight
type SeatMapResponse struct {
	FlightID     string                      `json:"flight_id"`
	FlightNumber string                      `json:"flight_number"`
	Airline      string                      `json:"airline"`
	Route        string                      `json:"route"`
	DepartureAt  time.Time                   `json:"departure_at"`
	Seats        map[CabinClass]ClassSeatMap `json:"seats"`
}

// ToSummaryResponse builds the list view for a flight snapshot, filtering the
// free-seat listing by class when requested.
func ToSummaryResponse(flight *Flight, classFilter CabinClass) FlightSummaryResponse {
	free := FreeSeats(flight, classFilter)
	if free == nil {
		free = []Seat{}
	}
	return FlightSummaryResponse{
		ID:                  flight.ID.String(),
		Airline:             flight.Airline,
		FlightNumber:        flight.FlightNumber,
		From:                flight.From,
		To:                  flight.To,
		DepartureAt:         flight.DepartureAt,
		ArrivalAt:           flight.ArrivalAt,
		Duration:            flight.Duration,
		SeatsByClass:        Availability(flight),
		TotalAvailableSeats: TotalFreeSeats(flight),
		AvailableSeats:      free,
	}
}

// ToSeatMapResponse builds the seat-map view for a flight snapshot
func ToSeatMapResponse(flight *Flight, classFilter CabinClass) SeatMapResponse {
	return SeatMapResponse{
		FlightID:     flight.ID.String(),
		FlightNumber: flight.FlightNumber,
		Airline:      flight.Airline,
		Route:        flight.Route(),
		DepartureAt:  flight.DepartureAt,
		Seats:        SeatMap(flight, classFilter),
	}
}
