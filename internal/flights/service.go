package flights

import (
	"context"
	"fmt"
	"math"
	"time"

	"aerobook/internal/shared/apperrors"

	"github.com/google/uuid"
)

type Service interface {
	// Read side
	GetFlight(ctx context.Context, id string) (*Flight, error)
	ListFlights(ctx context.Context, req ListFlightsRequest) (*FlightListResponse, error)
	GetSeatMap(ctx context.Context, id string, classFilter string) (*SeatMapResponse, error)

	// Inventory loading (admin)
	CreateFlight(ctx context.Context, req CreateFlightRequest) (*Flight, error)
	DeleteFlight(ctx context.Context, id string) error
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

func (s *service) GetFlight(ctx context.Context, id string) (*Flight, error) {
	flightID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid flight ID", apperrors.ErrInvalidRequest)
	}
	return s.store.GetFlight(ctx, flightID)
}

func (s *service) ListFlights(ctx context.Context, req ListFlightsRequest) (*FlightListResponse, error) {
	query := ListQuery{
		FromCode: req.From,
		ToCode:   req.To,
		Page:     req.Page,
		Limit:    req.Limit,
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", apperrors.ErrInvalidRequest)
		}
		query.Date = &date
	}

	results, total, err := s.store.ListFlights(ctx, query)
	if err != nil {
		return nil, err
	}

	classFilter := CabinClass(req.Class)
	summaries := make([]FlightSummaryResponse, 0, len(results))
	for i := range results {
		summaries = append(summaries, ToSummaryResponse(&results[i], classFilter))
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	return &FlightListResponse{
		Count:   len(summaries),
		Total:   total,
		Page:    query.Page,
		Pages:   int(math.Ceil(float64(total) / float64(limit))),
		Flights: summaries,
	}, nil
}

func (s *service) GetSeatMap(ctx context.Context, id string, classFilter string) (*SeatMapResponse, error) {
	flightID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid flight ID", apperrors.ErrInvalidRequest)
	}
	flight, err := s.store.GetFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}
	seatMap := ToSeatMapResponse(flight, CabinClass(classFilter))
	return &seatMap, nil
}

func (s *service) CreateFlight(ctx context.Context, req CreateFlightRequest) (*Flight, error) {
	seats := make([]Seat, 0, len(req.Seats))
	seen := make(map[string]struct{}, len(req.Seats))
	for _, sr := range req.Seats {
		if _, dup := seen[sr.SeatNumber]; dup {
			return nil, fmt.Errorf("%w: duplicate seat number %s", apperrors.ErrInvalidRequest, sr.SeatNumber)
		}
		seen[sr.SeatNumber] = struct{}{}
		seats = append(seats, Seat{
			SeatNumber: sr.SeatNumber,
			Class:      CabinClass(sr.Class),
			Price:      sr.Price,
		})
	}

	flight := &Flight{
		Airline:      req.Airline,
		FlightNumber: req.FlightNumber,
		From:         Endpoint(req.From),
		To:           Endpoint(req.To),
		DepartureAt:  req.DepartureAt,
		ArrivalAt:    req.ArrivalAt,
		Duration:     int(req.ArrivalAt.Sub(req.DepartureAt).Minutes()),
		Seats:        seats,
	}
	if err := s.store.CreateFlight(ctx, flight); err != nil {
		return nil, fmt.Errorf("create flight: %w", err)
	}
	return flight, nil
}

func (s *service) DeleteFlight(ctx context.Context, id string) error {
	flightID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid flight ID", apperrors.ErrInvalidRequest)
	}
	return s.store.DeleteFlight(ctx, flightID)
}
