package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerobook/internal/flights"
	"aerobook/internal/shared/apperrors"
	"aerobook/internal/shared/config"
)

const providerPayload = `{
	"status": true,
	"context": {"currency": "USD"},
	"itineraries": [
		{
			"token": "abc123",
			"price": {"raw": 845.5, "formatted": "$846"},
			"legs": [
				{
					"origin": {"displayCode": "ACC", "name": "Kotoka International Airport", "parent": {"name": "Accra"}},
					"destination": {"displayCode": "LHR", "name": "Heathrow Airport", "parent": {"name": "London"}},
					"departure": "2026-10-12T21:50:00",
					"arrival": "2026-10-13T06:05:00",
					"durationInMinutes": 435,
					"stopCount": 0,
					"carriers": {"marketing": [{"name": "British Airways"}]},
					"segments": [{"flightNumber": "78"}]
				}
			]
		}
	]
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*HTTPProvider, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider := NewHTTPProvider(config.FlightProviderConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		APIHost: "test-host",
		Timeout: 5 * time.Second,
	})
	return provider, server
}

func TestHTTPProviderParsesResponse(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotKey string

	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("x-rapidapi-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(providerPayload))
	})

	results, err := provider.Search(context.Background(), Query{
		Origin:        "ACC",
		Destination:   "LHR",
		DepartureDate: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		Adults:        2,
		CabinClass:    flights.ClassEconomy,
		TripType:      TripOneWay,
	})
	require.NoError(t, err)

	assert.Equal(t, "/flights/search-oneway", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, []string{"ACC"}, gotQuery["departureId"])
	assert.Equal(t, []string{"LHR"}, gotQuery["arrivalId"])
	assert.Equal(t, []string{"2026-10-12"}, gotQuery["departureDate"])
	assert.Equal(t, []string{"2"}, gotQuery["adults"])

	require.Len(t, results, 1)
	it := results[0]
	assert.Equal(t, "abc123", it.BookingToken)
	assert.Equal(t, "British Airways", it.Airline)
	assert.Equal(t, "78", it.FlightNumber)
	assert.Equal(t, "ACC", it.From.Code)
	assert.Equal(t, "Accra", it.From.City)
	assert.Equal(t, "Kotoka International Airport", it.From.Airport)
	assert.Equal(t, "London", it.To.City)
	assert.Equal(t, 435, it.Duration)
	assert.Equal(t, 0, it.Stops)
	assert.Equal(t, 845.5, it.Price.Amount)
	assert.Equal(t, "USD", it.Price.Currency)
	require.Len(t, it.Segments, 1)
	assert.Equal(t, 21, it.Segments[0].Departure.Hour())
}

func TestHTTPProviderRoundTripEndpoint(t *testing.T) {
	var gotPath string
	var gotReturn []string

	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotReturn = r.URL.Query()["returnDate"]
		_, _ = w.Write([]byte(`{"status": true, "itineraries": []}`))
	})

	returnDate := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)
	_, err := provider.Search(context.Background(), Query{
		Origin:        "ACC",
		Destination:   "LHR",
		DepartureDate: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		ReturnDate:    &returnDate,
		Adults:        1,
		CabinClass:    flights.ClassEconomy,
		TripType:      TripRoundTrip,
	})
	require.NoError(t, err)

	assert.Equal(t, "/flights/search-roundtrip", gotPath)
	assert.Equal(t, []string{"2026-10-20"}, gotReturn)
}

func TestHTTPProviderUpstreamFailure(t *testing.T) {
	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := provider.Search(context.Background(), Query{
		Origin:        "ACC",
		Destination:   "LHR",
		DepartureDate: time.Now(),
		Adults:        1,
		TripType:      TripOneWay,
	})
	assert.ErrorIs(t, err, apperrors.ErrUpstreamProvider)
}

func TestHTTPProviderRejectsGarbageTimestamps(t *testing.T) {
	// Structurally valid JSON with unparseable leg times is a provider
	// failure, not usable live data.
	payload := `{
		"status": true,
		"context": {"currency": "USD"},
		"itineraries": [
			{
				"token": "abc123",
				"price": {"raw": 845.5, "formatted": "$846"},
				"legs": [
					{
						"origin": {"displayCode": "ACC", "name": "Kotoka International Airport"},
						"destination": {"displayCode": "LHR", "name": "Heathrow Airport"},
						"departure": "next tuesday-ish",
						"arrival": "2026-10-13T06:05:00",
						"durationInMinutes": 435,
						"stopCount": 0,
						"carriers": {"marketing": [{"name": "British Airways"}]},
						"segments": [{"flightNumber": "78"}]
					}
				]
			}
		]
	}`

	provider, _ := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	})

	results, err := provider.Search(context.Background(), Query{
		Origin:        "ACC",
		Destination:   "LHR",
		DepartureDate: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
		Adults:        1,
		CabinClass:    flights.ClassEconomy,
		TripType:      TripOneWay,
	})
	assert.ErrorIs(t, err, apperrors.ErrUpstreamProvider)
	assert.Nil(t, results)
}

func TestHTTPProviderUnconfigured(t *testing.T) {
	provider := NewHTTPProvider(config.FlightProviderConfig{Timeout: time.Second})

	_, err := provider.Search(context.Background(), Query{TripType: TripOneWay})
	assert.ErrorIs(t, err, apperrors.ErrUpstreamProvider)
	assert.False(t, provider.Configured())
}
