package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"aerobook/internal/flights"
	"aerobook/internal/shared/apperrors"
	"aerobook/internal/shared/config"
)

// Provider produces itineraries for a query. Implementations must return a
// non-nil error when they could not obtain usable results.
type Provider interface {
	Search(ctx context.Context, query Query) ([]Itinerary, error)
}

// HTTPProvider queries the upstream flight aggregation API
type HTTPProvider struct {
	baseURL string
	apiKey  string
	apiHost string
	client  *http.Client
}

// NewHTTPProvider builds a provider from config. The HTTP client timeout
// bounds the whole request including body read.
func NewHTTPProvider(cfg config.FlightProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Configured reports whether provider credentials are present. An
// unconfigured provider fails fast so the fallback takes over.
func (p *HTTPProvider) Configured() bool {
	return p.apiKey != "" && p.baseURL != ""
}

// providerResponse mirrors the upstream wire format
type providerResponse struct {
	Status      bool                `json:"status"`
	Itineraries []providerItinerary `json:"itineraries"`
	Context     struct {
		Currency string `json:"currency"`
	} `json:"context"`
	Message string `json:"message"`
}

type providerItinerary struct {
	Token string `json:"token"`
	Price struct {
		Raw       float64 `json:"raw"`
		Formatted string  `json:"formatted"`
	} `json:"price"`
	Legs []providerLeg `json:"legs"`
}

type providerLeg struct {
	Origin            providerPlace `json:"origin"`
	Destination       providerPlace `json:"destination"`
	Departure         string        `json:"departure"`
	Arrival           string        `json:"arrival"`
	DurationInMinutes int           `json:"durationInMinutes"`
	StopCount         int           `json:"stopCount"`
	Carriers          struct {
		Marketing []struct {
			Name string `json:"name"`
		} `json:"marketing"`
	} `json:"carriers"`
	Segments []struct {
		FlightNumber string `json:"flightNumber"`
	} `json:"segments"`
}

type providerPlace struct {
	DisplayCode string `json:"displayCode"`
	Name        string `json:"name"`
	Parent      *struct {
		Name string `json:"name"`
	} `json:"parent"`
}

func (p *HTTPProvider) Search(ctx context.Context, query Query) ([]Itinerary, error) {
	if !p.Configured() {
		return nil, fmt.Errorf("flight provider not configured: %w", apperrors.ErrUpstreamProvider)
	}

	endpoint := "/flights/search-oneway"
	if query.TripType == TripRoundTrip {
		endpoint = "/flights/search-roundtrip"
	}

	params := url.Values{}
	params.Set("departureId", query.Origin)
	params.Set("arrivalId", query.Destination)
	params.Set("departureDate", query.DepartureDate.Format("2006-01-02"))
	if query.TripType == TripRoundTrip && query.ReturnDate != nil {
		params.Set("returnDate", query.ReturnDate.Format("2006-01-02"))
	}
	params.Set("adults", strconv.Itoa(query.Adults))
	params.Set("currency", "USD")
	params.Set("cabinClass", string(query.CabinClass))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", p.apiKey)
	req.Header.Set("x-rapidapi-host", p.apiHost)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d: %w", resp.StatusCode, apperrors.ErrUpstreamProvider)
	}

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	return mapProviderResults(body, query.TripType)
}

// mapProviderResults translates the upstream shape to itineraries. The
// headline airline, flight number and stop count come from the first leg;
// the arrival endpoint comes from the last leg. A leg with an unparseable
// timestamp marks the whole payload malformed.
func mapProviderResults(body providerResponse, tripType TripType) ([]Itinerary, error) {
	currency := body.Context.Currency
	if currency == "" {
		currency = "USD"
	}

	results := make([]Itinerary, 0, len(body.Itineraries))
	for _, it := range body.Itineraries {
		if len(it.Legs) == 0 {
			continue
		}
		first := it.Legs[0]
		last := it.Legs[len(it.Legs)-1]

		totalDuration := 0
		segments := make([]Segment, 0, len(it.Legs))
		for _, leg := range it.Legs {
			departure, err := parseProviderTime(leg.Departure)
			if err != nil {
				return nil, err
			}
			arrival, err := parseProviderTime(leg.Arrival)
			if err != nil {
				return nil, err
			}
			totalDuration += leg.DurationInMinutes
			segments = append(segments, Segment{
				Origin:       leg.Origin.DisplayCode,
				Destination:  leg.Destination.DisplayCode,
				Departure:    departure,
				Arrival:      arrival,
				Duration:     leg.DurationInMinutes,
				Carrier:      legCarrier(leg),
				FlightNumber: legFlightNumber(leg),
			})
		}

		results = append(results, Itinerary{
			BookingToken: it.Token,
			TripType:     tripType,
			Airline:      legCarrier(first),
			FlightNumber: legFlightNumber(first),
			From: flights.Endpoint{
				Code:    first.Origin.DisplayCode,
				City:    placeCity(first.Origin),
				Airport: first.Origin.Name,
			},
			To: flights.Endpoint{
				Code:    last.Destination.DisplayCode,
				City:    placeCity(last.Destination),
				Airport: last.Destination.Name,
			},
			DepartureAt: segments[0].Departure,
			ArrivalAt:   segments[len(segments)-1].Arrival,
			Duration:    totalDuration,
			Stops:       first.StopCount,
			Price: Price{
				Amount:    it.Price.Raw,
				Currency:  currency,
				Formatted: it.Price.Formatted,
			},
			Segments: segments,
		})
	}
	return results, nil
}

func placeCity(p providerPlace) string {
	if p.Parent != nil && p.Parent.Name != "" {
		return p.Parent.Name
	}
	return p.Name
}

func legCarrier(leg providerLeg) string {
	if len(leg.Carriers.Marketing) > 0 && leg.Carriers.Marketing[0].Name != "" {
		return leg.Carriers.Marketing[0].Name
	}
	return "Unknown Airline"
}

func legFlightNumber(leg providerLeg) string {
	if len(leg.Segments) > 0 && leg.Segments[0].FlightNumber != "" {
		return leg.Segments[0].FlightNumber
	}
	return "N/A"
}

// parseProviderTime handles the timestamp variants the upstream emits. A
// value matching neither layout classifies as a provider failure so garbage
// payloads never pass for usable live data.
func parseProviderTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable provider timestamp %q: %w", value, apperrors.ErrUpstreamProvider)
}
