package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aerobook/internal/shared/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListQuery carries flight list filters and pagination
type ListQuery struct {
	FromCode string
	ToCode   string
	Date     *time.Time
	Page     int
	Limit    int
}

// Store is the seat inventory store: the single source of truth for seat
// availability. CommitSeats and ReleaseSeats are the only write paths for
// booked flags.
type Store interface {
	GetFlight(ctx context.Context, id uuid.UUID) (*Flight, error)
	ListFlights(ctx context.Context, query ListQuery) ([]Flight, int64, error)
	CreateFlight(ctx context.Context, flight *Flight) error
	DeleteFlight(ctx context.Context, id uuid.UUID) error

	// CommitSeats atomically transitions every listed seat free→booked, or
	// none of them. expectedVersion is the flight version the caller read its
	// snapshot at; a stale version fails with ErrVersionConflict so the caller
	// can re-validate and retry.
	CommitSeats(ctx context.Context, flightID uuid.UUID, seatIDs []uuid.UUID, expectedVersion int64) (*Flight, error)

	// ReleaseSeats transitions the listed seats booked→free. This is the
	// cancellation-compensation path; it is unconditional on version.
	ReleaseSeats(ctx context.Context, flightID uuid.UUID, seatIDs []uuid.UUID) error
}

type store struct {
	db *gorm.DB
}

// NewStore creates a PostgreSQL-backed inventory store
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) GetFlight(ctx context.Context, id uuid.UUID) (*Flight, error) {
	var flight Flight
	err := s.db.WithContext(ctx).
		Preload("Seats", func(db *gorm.DB) *gorm.DB {
			return db.Order("seat_number ASC")
		}).
		First(&flight, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFlightNotFound
		}
		return nil, fmt.Errorf("get flight: %w", err)
	}
	return &flight, nil
}

func (s *store) ListFlights(ctx context.Context, query ListQuery) ([]Flight, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := s.db.WithContext(ctx).Model(&Flight{})
	if query.FromCode != "" {
		baseQuery = baseQuery.Where("from_code = ?", query.FromCode)
	}
	if query.ToCode != "" {
		baseQuery = baseQuery.Where("to_code = ?", query.ToCode)
	}
	if query.Date != nil {
		dayStart := query.Date.Truncate(24 * time.Hour)
		baseQuery = baseQuery.Where("departure_at >= ? AND departure_at < ?", dayStart, dayStart.Add(24*time.Hour))
	}

	var totalCount int64
	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("count flights: %w", err)
	}

	var results []Flight
	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Seats").
		Order("departure_at ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&results).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list flights: %w", err)
	}
	return results, totalCount, nil
}

func (s *store) CreateFlight(ctx context.Context, flight *Flight) error {
	return s.db.WithContext(ctx).Create(flight).Error
}

func (s *store) DeleteFlight(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Delete(&Flight{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete flight: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrFlightNotFound
	}
	return nil
}

func (s *store) CommitSeats(ctx context.Context, flightID uuid.UUID, seatIDs []uuid.UUID, expectedVersion int64) (*Flight, error) {
	if len(seatIDs) == 0 {
		return nil, fmt.Errorf("%w: empty seat selection", apperrors.ErrInvalidRequest)
	}

	var committed *Flight
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Compare-and-swap on the flight version. Zero rows means either a
		// concurrent commit got there first or the flight is gone.
		bump := tx.Model(&Flight{}).
			Where("id = ? AND version = ?", flightID, expectedVersion).
			Update("version", gorm.Expr("version + 1"))
		if bump.Error != nil {
			return fmt.Errorf("bump flight version: %w", bump.Error)
		}
		if bump.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&Flight{}).Where("id = ?", flightID).Count(&exists).Error; err != nil {
				return fmt.Errorf("check flight existence: %w", err)
			}
			if exists == 0 {
				return apperrors.ErrFlightNotFound
			}
			return apperrors.ErrVersionConflict
		}

		var seats []Seat
		if err := tx.Where("flight_id = ? AND id IN ?", flightID, seatIDs).Find(&seats).Error; err != nil {
			return fmt.Errorf("load requested seats: %w", err)
		}
		if len(seats) != len(seatIDs) {
			return &apperrors.UnknownSeatError{SeatID: firstMissingSeat(seatIDs, seats).String()}
		}
		for i := range seats {
			if seats[i].IsBooked {
				return &apperrors.SeatUnavailableError{
					SeatID:     seats[i].ID.String(),
					SeatNumber: seats[i].SeatNumber,
				}
			}
		}

		update := tx.Model(&Seat{}).
			Where("flight_id = ? AND id IN ? AND is_booked = ?", flightID, seatIDs, false).
			Update("is_booked", true)
		if update.Error != nil {
			return fmt.Errorf("book seats: %w", update.Error)
		}
		if update.RowsAffected != int64(len(seatIDs)) {
			// The version CAS should have serialized us; treat as a conflict
			// so the caller re-reads and retries.
			return apperrors.ErrVersionConflict
		}

		var flight Flight
		if err := tx.Preload("Seats").First(&flight, "id = ?", flightID).Error; err != nil {
			return fmt.Errorf("reload flight: %w", err)
		}
		committed = &flight
		return nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

func (s *store) ReleaseSeats(ctx context.Context, flightID uuid.UUID, seatIDs []uuid.UUID) error {
	if len(seatIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bump := tx.Model(&Flight{}).
			Where("id = ?", flightID).
			Update("version", gorm.Expr("version + 1"))
		if bump.Error != nil {
			return fmt.Errorf("bump flight version: %w", bump.Error)
		}
		if bump.RowsAffected == 0 {
			return apperrors.ErrFlightNotFound
		}

		err := tx.Model(&Seat{}).
			Where("flight_id = ? AND id IN ? AND is_booked = ?", flightID, seatIDs, true).
			Update("is_booked", false).Error
		if err != nil {
			return fmt.Errorf("release seats: %w", err)
		}
		return nil
	})
}

// firstMissingSeat returns the first requested seat ID absent from the loaded set
func firstMissingSeat(requested []uuid.UUID, found []Seat) uuid.UUID {
	present := make(map[uuid.UUID]struct{}, len(found))
	for i := range found {
		present[found[i].ID] = struct{}{}
	}
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			return id
		}
	}
	return uuid.Nil
}
