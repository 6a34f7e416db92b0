package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"aerobook/internal/flights"
	"aerobook/internal/shared/apperrors"
	"aerobook/pkg/cache"
	"aerobook/pkg/logger"
)

const sampleDataMessage = "Live pricing is temporarily unavailable. Showing sample results."

// Service aggregates itineraries from the live provider with a synthetic
// fallback so that search never returns an empty page for provider outages.
type Service interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

type service struct {
	provider Provider
	fallback *Generator
	cache    cache.Service
	cacheTTL time.Duration
	log      *logger.Logger
}

// Option configures the search service
type Option func(*service)

// WithCache enables cache-aside storage of live provider results
func WithCache(c cache.Service, ttl time.Duration) Option {
	return func(s *service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func NewService(provider Provider, opts ...Option) Service {
	s := &service{
		provider: provider,
		fallback: NewGenerator(),
		cacheTTL: 5 * time.Minute,
		log:      logger.GetDefault(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	query, err := resolveQuery(req)
	if err != nil {
		return nil, err
	}

	echo := echoParams(query)

	// Cached entries always hold live results; synthetic sets are never
	// written, so a hit short-circuits the provider without masking it.
	if s.cache != nil {
		var cached []Itinerary
		if err := s.cache.Get(ctx, cacheKey(query), &cached); err == nil && len(cached) > 0 {
			return liveResponse(cached, echo), nil
		}
	}

	results, provErr := s.provider.Search(ctx, query)
	if provErr == nil && len(results) > 0 {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Price.Amount < results[j].Price.Amount
		})
		s.storeInCache(query, results)
		return liveResponse(results, echo), nil
	}

	// Caller cancellation is not a provider failure. Abort instead of
	// synthesizing results nobody is waiting for.
	if ctx.Err() != nil {
		return nil, fmt.Errorf("search cancelled: %w", ctx.Err())
	}

	if provErr != nil {
		s.log.Warn("flight provider unavailable, serving synthetic results",
			slog.String("origin", query.Origin),
			slog.String("destination", query.Destination),
			slog.String("error", provErr.Error()),
		)
	} else {
		s.log.Info("flight provider returned no itineraries, serving synthetic results",
			slog.String("origin", query.Origin),
			slog.String("destination", query.Destination),
		)
	}

	synthetic := s.fallback.Generate(query)
	return &SearchResponse{
		Count:        len(synthetic),
		Itineraries:  synthetic,
		Provenance:   ProvenanceSynthetic,
		IsSampleData: true,
		Message:      sampleDataMessage,
		SearchParams: echo,
	}, nil
}

func (s *service) storeInCache(query Query, results []Itinerary) {
	if s.cache == nil {
		return
	}
	// Detached context: the response should not wait on Redis.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Set(ctx, cacheKey(query), results, s.cacheTTL); err != nil {
			s.log.Warn("failed to cache search results", slog.String("error", err.Error()))
		}
	}()
}

func liveResponse(results []Itinerary, echo SearchParamsEcho) *SearchResponse {
	return &SearchResponse{
		Count:        len(results),
		Itineraries:  results,
		Provenance:   ProvenanceLive,
		IsSampleData: false,
		SearchParams: echo,
	}
}

// resolveQuery validates the raw request and translates free text locations
// into IATA codes.
func resolveQuery(req SearchRequest) (Query, error) {
	origin := ResolveAirportCode(req.From)
	destination := ResolveAirportCode(req.To)
	if origin == "" || destination == "" {
		return Query{}, fmt.Errorf("origin and destination are required: %w", apperrors.ErrInvalidRequest)
	}
	if origin == destination {
		return Query{}, fmt.Errorf("origin and destination must differ: %w", apperrors.ErrInvalidRequest)
	}

	departure, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		return Query{}, fmt.Errorf("invalid departure_date %q, expected YYYY-MM-DD: %w", req.DepartureDate, apperrors.ErrInvalidRequest)
	}

	tripType := TripType(req.TripType)
	if tripType == "" {
		tripType = TripRoundTrip
	}

	var returnDate *time.Time
	if tripType == TripRoundTrip {
		if req.ReturnDate == "" {
			return Query{}, fmt.Errorf("return_date is required for roundtrip searches: %w", apperrors.ErrInvalidRequest)
		}
		rd, err := time.Parse("2006-01-02", req.ReturnDate)
		if err != nil {
			return Query{}, fmt.Errorf("invalid return_date %q, expected YYYY-MM-DD: %w", req.ReturnDate, apperrors.ErrInvalidRequest)
		}
		if rd.Before(departure) {
			return Query{}, fmt.Errorf("return_date must not precede departure_date: %w", apperrors.ErrInvalidRequest)
		}
		returnDate = &rd
	}

	adults := req.Adults
	if adults < 1 {
		adults = 1
	}

	cabin := flights.CabinClass(strings.ToLower(req.CabinClass))
	if cabin == "" {
		cabin = flights.ClassEconomy
	}

	return Query{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: departure,
		ReturnDate:    returnDate,
		Adults:        adults,
		CabinClass:    cabin,
		TripType:      tripType,
	}, nil
}

func echoParams(query Query) SearchParamsEcho {
	echo := SearchParamsEcho{
		From:          query.Origin,
		To:            query.Destination,
		DepartureDate: query.DepartureDate.Format("2006-01-02"),
		Adults:        query.Adults,
		CabinClass:    string(query.CabinClass),
		TripType:      string(query.TripType),
	}
	if query.ReturnDate != nil {
		echo.ReturnDate = query.ReturnDate.Format("2006-01-02")
	}
	return echo
}

func cacheKey(query Query) string {
	key := fmt.Sprintf("search:%s:%s:%s:%d:%s:%s",
		query.Origin,
		query.Destination,
		query.DepartureDate.Format("2006-01-02"),
		query.Adults,
		query.CabinClass,
		query.TripType,
	)
	if query.ReturnDate != nil {
		key += ":" + query.ReturnDate.Format("2006-01-02")
	}
	return key
}
