package flights

import "time"

// EndpointRequest describes one end of a route in a create request
type EndpointRequest struct {
	Code    string `json:"code" binding:"required,min=3,max=4"`
	City    string `json:"city" binding:"required"`
	Airport string `json:"airport" binding:"required"`
}

// SeatRequest describes a single seat in a create request
type SeatRequest struct {
	SeatNumber string  `json:"seat_number" binding:"required"`
	Class      string  `json:"class" binding:"required,oneof=economy business first"`
	Price      float64 `json:"price" binding:"required,gt=0"`
}

// CreateFlightRequest is the inventory-loading payload for a new flight
type CreateFlightRequest struct {
	Airline      string          `json:"airline" binding:"required"`
	FlightNumber string          `json:"flight_number" binding:"required"`
	From         EndpointRequest `json:"from" binding:"required"`
	To           EndpointRequest `json:"to" binding:"required"`
	DepartureAt  time.Time       `json:"departure_at" binding:"required"`
	ArrivalAt    time.Time       `json:"arrival_at" binding:"required,gtfield=DepartureAt"`
	Seats        []SeatRequest   `json:"seats" binding:"required,min=1,dive"`
}

// ListFlightsRequest carries list filters from query parameters
type ListFlightsRequest struct {
	From  string `form:"from"`
	To    string `form:"to"`
	Date  string `form:"date"` // YYYY-MM-DD
	Class string `form:"class" binding:"omitempty,oneof=economy business first"`
	Page  int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit int    `form:"limit,default=10" binding:"omitempty,min=1,max=100"`
}

// SeatMapRequest carries the optional class filter for the seat-map endpoint
type SeatMapRequest struct {
	Class string `form:"class" binding:"omitempty,oneof=economy business first"`
}
