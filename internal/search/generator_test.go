package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerobook/internal/flights"
)

func sampleQuery() Query {
	return Query{
		Origin:        "ACC",
		Destination:   "LHR",
		DepartureDate: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		Adults:        1,
		CabinClass:    flights.ClassEconomy,
		TripType:      TripOneWay,
	}
}

func TestGenerateResultCount(t *testing.T) {
	results := NewGenerator().Generate(sampleQuery())
	assert.GreaterOrEqual(t, len(results), 8)
	assert.LessOrEqual(t, len(results), 17)
}

func TestGenerateIsDeterministicPerQuery(t *testing.T) {
	g := NewGenerator()
	first := g.Generate(sampleQuery())
	second := g.Generate(sampleQuery())
	assert.Equal(t, first, second, "same query must yield the same sample set")

	other := sampleQuery()
	other.Destination = "JFK"
	assert.NotEqual(t, first, g.Generate(other))
}

func TestGenerateSortedByAscendingPrice(t *testing.T) {
	results := NewGenerator().Generate(sampleQuery())
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].Price.Amount, results[i].Price.Amount)
	}
}

func TestGenerateItineraryInvariants(t *testing.T) {
	query := sampleQuery()
	results := NewGenerator().Generate(query)
	require.NotEmpty(t, results)

	for _, it := range results {
		assert.Equal(t, "ACC", it.From.Code)
		assert.Equal(t, "Accra", it.From.City)
		assert.Equal(t, "LHR", it.To.Code)
		assert.Equal(t, TripOneWay, it.TripType)
		assert.NotEmpty(t, it.Airline)
		assert.NotEmpty(t, it.BookingToken)

		// Departure window is 06:00 to 22:30 on the requested day.
		assert.Equal(t, query.DepartureDate.Day(), it.DepartureAt.Day())
		assert.GreaterOrEqual(t, it.DepartureAt.Hour(), 6)
		assert.LessOrEqual(t, it.DepartureAt.Hour(), 22)
		assert.Contains(t, []int{0, 30}, it.DepartureAt.Minute())

		// Duration within the 5 to 12 hour band and arrival math holds.
		assert.GreaterOrEqual(t, it.Duration, 300)
		assert.Less(t, it.Duration, 720)
		assert.Equal(t, it.DepartureAt.Add(time.Duration(it.Duration)*time.Minute), it.ArrivalAt)

		assert.Contains(t, []int{0, 1, 2}, it.Stops)
		assert.Positive(t, it.Price.Amount)
		assert.Equal(t, "USD", it.Price.Currency)
	}
}

func TestGenerateSegmentsChain(t *testing.T) {
	results := NewGenerator().Generate(sampleQuery())

	for _, it := range results {
		require.NotEmpty(t, it.Segments)

		if it.Stops == 0 {
			require.Len(t, it.Segments, 1)
			assert.Equal(t, "ACC", it.Segments[0].Origin)
			assert.Equal(t, "LHR", it.Segments[0].Destination)
			continue
		}

		// Multi-stop itineraries route through a known hub with the
		// segments chaining origin to destination.
		require.Len(t, it.Segments, 2)
		assert.Equal(t, "ACC", it.Segments[0].Origin)
		assert.Equal(t, it.Segments[0].Destination, it.Segments[1].Origin)
		assert.Contains(t, layoverCodes, it.Segments[0].Destination)
		assert.Equal(t, "LHR", it.Segments[1].Destination)

		// One hour layover between the legs.
		assert.Equal(t, it.Segments[0].Arrival.Add(time.Hour), it.Segments[1].Departure)
		assert.Equal(t, it.ArrivalAt, it.Segments[1].Arrival)
	}
}

func TestAirportNameFallsBackToCode(t *testing.T) {
	assert.Equal(t, "Kotoka International Airport", AirportName("ACC"))
	assert.Equal(t, "Accra", AirportCity("ACC"))
	assert.Equal(t, "XYZ", AirportName("XYZ"))
	assert.Equal(t, "XYZ", AirportCity("XYZ"))
}
