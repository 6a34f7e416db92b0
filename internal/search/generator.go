package search

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strings"
	"time"

	"aerobook/internal/flights"
)

var syntheticAirlines = []string{
	"British Airways",
	"Emirates",
	"Qatar Airways",
	"Delta Airlines",
	"United Airlines",
	"Lufthansa",
	"Air France",
	"KLM",
	"Turkish Airlines",
	"Ethiopian Airlines",
}

var layoverCodes = []string{"DXB", "IST", "FRA", "AMS", "CDG"}

var airportCities = map[string]string{
	"JFK": "New York",
	"LHR": "London",
	"ACC": "Accra",
	"LAX": "Los Angeles",
	"DXB": "Dubai",
	"CDG": "Paris",
	"FRA": "Frankfurt",
	"AMS": "Amsterdam",
	"ORD": "Chicago",
	"MIA": "Miami",
	"SFO": "San Francisco",
	"BOS": "Boston",
	"ATL": "Atlanta",
	"IAD": "Washington",
	"LGW": "London",
	"AUH": "Abu Dhabi",
	"MAD": "Madrid",
	"BCN": "Barcelona",
	"FCO": "Rome",
	"MXP": "Milan",
	"MUC": "Munich",
	"BER": "Berlin",
}

var airportNames = map[string]string{
	"JFK": "John F. Kennedy International Airport",
	"LHR": "Heathrow Airport",
	"ACC": "Kotoka International Airport",
	"LAX": "Los Angeles International Airport",
	"DXB": "Dubai International Airport",
	"CDG": "Charles de Gaulle Airport",
	"FRA": "Frankfurt Airport",
	"AMS": "Amsterdam Schiphol Airport",
	"ORD": "O'Hare International Airport",
	"MIA": "Miami International Airport",
	"SFO": "San Francisco International Airport",
	"BOS": "Logan International Airport",
	"ATL": "Hartsfield-Jackson Atlanta International Airport",
	"IAD": "Washington Dulles International Airport",
	"LGW": "Gatwick Airport",
	"AUH": "Abu Dhabi International Airport",
	"MAD": "Madrid-Barajas Airport",
	"BCN": "Barcelona-El Prat Airport",
	"FCO": "Leonardo da Vinci International Airport",
	"MXP": "Milan Malpensa Airport",
	"MUC": "Munich Airport",
	"BER": "Berlin Brandenburg Airport",
}

// AirportCity returns the city a code belongs to, or the code itself
func AirportCity(code string) string {
	if city, ok := airportCities[code]; ok {
		return city
	}
	return code
}

// AirportName returns the full airport name for a code, or the code itself
func AirportName(code string) string {
	if name, ok := airportNames[code]; ok {
		return name
	}
	return code
}

// Generator produces synthetic itineraries when no live provider data is
// available. Results are deterministic per query: the RNG is seeded from the
// query fields, so repeating a search yields the same sample set.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

var _ Provider = (*Generator)(nil)

func (g *Generator) Search(_ context.Context, query Query) ([]Itinerary, error) {
	return g.Generate(query), nil
}

// querySeed folds the query fields into a stable RNG seed
func querySeed(query Query) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%s|%d|%s|%s",
		query.Origin,
		query.Destination,
		query.DepartureDate.Format("2006-01-02"),
		query.Adults,
		query.CabinClass,
		query.TripType,
	)
	if query.ReturnDate != nil {
		fmt.Fprintf(h, "|%s", query.ReturnDate.Format("2006-01-02"))
	}
	return int64(h.Sum64())
}

// Generate builds between 8 and 17 itineraries for the query, sorted by
// ascending price.
func (g *Generator) Generate(query Query) []Itinerary {
	rng := rand.New(rand.NewSource(querySeed(query)))

	count := rng.Intn(10) + 8
	adults := query.Adults
	if adults < 1 {
		adults = 1
	}

	day := query.DepartureDate
	results := make([]Itinerary, 0, count)
	for i := 0; i < count; i++ {
		airline := syntheticAirlines[rng.Intn(len(syntheticAirlines))]

		hour := 6 + rng.Intn(16)
		minute := 0
		if rng.Intn(2) == 1 {
			minute = 30
		}
		departure := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)

		duration := 300 + rng.Intn(420)
		arrival := departure.Add(time.Duration(duration) * time.Minute)

		stops := 2
		if rng.Float64() < 0.3 {
			stops = 0
		} else if rng.Float64() < 0.7 {
			stops = 1
		}

		basePrice := float64(400 + rng.Intn(800))
		price := basePrice + float64(stops)*50 + float64(adults-1)*basePrice*0.9

		results = append(results, Itinerary{
			BookingToken: fmt.Sprintf("SYN_%d_%d", querySeed(query), i),
			TripType:     query.TripType,
			Airline:      airline,
			FlightNumber: syntheticFlightNumber(rng, airline),
			From: flights.Endpoint{
				Code:    query.Origin,
				City:    AirportCity(query.Origin),
				Airport: AirportName(query.Origin),
			},
			To: flights.Endpoint{
				Code:    query.Destination,
				City:    AirportCity(query.Destination),
				Airport: AirportName(query.Destination),
			},
			DepartureAt: departure,
			ArrivalAt:   arrival,
			Duration:    duration,
			Stops:       stops,
			Price: Price{
				Amount:    float64(int(price + 0.5)),
				Currency:  "USD",
				Formatted: fmt.Sprintf("$%d", int(price+0.5)),
			},
			Segments: syntheticSegments(rng, query.Origin, query.Destination, stops, departure, arrival),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Price.Amount < results[j].Price.Amount
	})
	return results
}

// syntheticFlightNumber derives a plausible number from the airline prefix
func syntheticFlightNumber(rng *rand.Rand, airline string) string {
	prefix := strings.ToUpper(airline)
	if idx := strings.IndexByte(prefix, ' '); idx > 0 {
		prefix = prefix[:idx]
	}
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return fmt.Sprintf("%s%d", prefix, 1000+rng.Intn(9000))
}

// syntheticSegments splits the journey at a layover hub when there are
// stops. Layovers are a fixed hour, matching what real multi-leg results
// look like closely enough for sample data.
func syntheticSegments(rng *rand.Rand, from, to string, stops int, departure, arrival time.Time) []Segment {
	if stops == 0 {
		return []Segment{{
			Origin:       from,
			Destination:  to,
			Departure:    departure,
			Arrival:      arrival,
			Duration:     int(arrival.Sub(departure).Minutes()),
			Carrier:      "Sample Airline",
			FlightNumber: "SA1234",
		}}
	}

	stopCity := layoverCodes[rng.Intn(len(layoverCodes))]
	mid := departure.Add(arrival.Sub(departure) / 2)
	secondDeparture := mid.Add(time.Hour)

	return []Segment{
		{
			Origin:       from,
			Destination:  stopCity,
			Departure:    departure,
			Arrival:      mid,
			Duration:     int(mid.Sub(departure).Minutes()),
			Carrier:      "Sample Airline",
			FlightNumber: "SA1234",
		},
		{
			Origin:       stopCity,
			Destination:  to,
			Departure:    secondDeparture,
			Arrival:      arrival,
			Duration:     int(arrival.Sub(secondDeparture).Minutes()),
			Carrier:      "Sample Airline",
			FlightNumber: "SA5678",
		},
	}
}
