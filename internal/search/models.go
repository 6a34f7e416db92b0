package search

import (
	"time"

	"aerobook/internal/flights"
)

// TripType distinguishes one-way from round-trip searches
type TripType string

const (
	TripOneWay    TripType = "oneway"
	TripRoundTrip TripType = "roundtrip"
)

// Provenance tags a whole result set as live provider data or synthetic
// fallback data. It is all-or-nothing: a response never mixes sources.
type Provenance string

const (
	ProvenanceLive      Provenance = "live"
	ProvenanceSynthetic Provenance = "synthetic"
)

// Price is an itinerary price with display formatting
type Price struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
}

// Segment is one leg of an itinerary. Segments chain: each segment's origin
// is the previous segment's destination.
type Segment struct {
	Origin       string    `json:"origin"`
	Destination  string    `json:"destination"`
	Departure    time.Time `json:"departure"`
	Arrival      time.Time `json:"arrival"`
	Duration     int       `json:"duration"` // minutes
	Carrier      string    `json:"carrier"`
	FlightNumber string    `json:"flight_number"`
}

// Itinerary is an ephemeral search result. It is not persisted unless
// explicitly cached.
type Itinerary struct {
	BookingToken string           `json:"booking_token"`
	TripType     TripType         `json:"trip_type"`
	Airline      string           `json:"airline"`
	FlightNumber string           `json:"flight_number"`
	From         flights.Endpoint `json:"from"`
	To           flights.Endpoint `json:"to"`
	DepartureAt  time.Time        `json:"departure_at"`
	ArrivalAt    time.Time        `json:"arrival_at"`
	Duration     int              `json:"duration"` // minutes
	Stops        int              `json:"stops"`
	Price        Price            `json:"price"`
	Segments     []Segment        `json:"segments"`
}

// Query is a resolved search request: origin/destination already translated
// to canonical location codes.
type Query struct {
	Origin        string
	Destination   string
	DepartureDate time.Time
	ReturnDate    *time.Time
	Adults        int
	CabinClass    flights.CabinClass
	TripType      TripType
}

// SearchRequest carries the raw search parameters from the query string
type SearchRequest struct {
	From          string `form:"from" binding:"required"`
	To            string `form:"to" binding:"required"`
	DepartureDate string `form:"departure_date" binding:"required"`
	ReturnDate    string `form:"return_date" binding:"omitempty"`
	Adults        int    `form:"adults,default=1" binding:"omitempty,min=1,max=9"`
	CabinClass    string `form:"cabin_class,default=economy" binding:"omitempty,oneof=economy business first"`
	TripType      string `form:"trip_type,default=roundtrip" binding:"omitempty,oneof=oneway roundtrip"`
}

// SearchParamsEcho mirrors the resolved parameters back to the caller
type SearchParamsEcho struct {
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date,omitempty"`
	Adults        int    `json:"adults"`
	CabinClass    string `json:"cabin_class"`
	TripType      string `json:"trip_type"`
}

// SearchResponse is the aggregator's reply. IsSampleData flags synthetic
// provenance so clients can display a sample-data notice.
type SearchResponse struct {
	Count        int              `json:"count"`
	Itineraries  []Itinerary      `json:"itineraries"`
	Provenance   Provenance       `json:"provenance"`
	IsSampleData bool             `json:"is_sample_data"`
	Message      string           `json:"message,omitempty"`
	SearchParams SearchParamsEcho `json:"search_params"`
}
