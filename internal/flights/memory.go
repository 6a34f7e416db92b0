package flights

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"aerobook/internal/shared/apperrors"

	"github.com/google/uuid"
)

// MemoryStore is an in-process inventory store with the same commit semantics
// as the PostgreSQL store. It backs the test suite and the demo seeder.
// Coordination is a short per-flight critical section held only for the
// in-memory mutation, never across request I/O.
type MemoryStore struct {
	mu      sync.RWMutex
	flights map[uuid.UUID]*flightRecord
}

type flightRecord struct {
	mu     sync.Mutex
	flight Flight
}

// NewMemoryStore creates an empty in-memory inventory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flights: make(map[uuid.UUID]*flightRecord)}
}

func (m *MemoryStore) GetFlight(ctx context.Context, id uuid.UUID) (*Flight, error) {
	m.mu.RLock()
	rec, ok := m.flights[id]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrFlightNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	snapshot := cloneFlight(&rec.flight)
	return snapshot, nil
}

func (m *MemoryStore) ListFlights(ctx context.Context, query ListQuery) ([]Flight, int64, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	m.mu.RLock()
	all := make([]*flightRecord, 0, len(m.flights))
	for _, rec := range m.flights {
		all = append(all, rec)
	}
	m.mu.RUnlock()

	var matched []Flight
	for _, rec := range all {
		rec.mu.Lock()
		f := cloneFlight(&rec.flight)
		rec.mu.Unlock()

		if query.FromCode != "" && !strings.EqualFold(f.From.Code, query.FromCode) {
			continue
		}
		if query.ToCode != "" && !strings.EqualFold(f.To.Code, query.ToCode) {
			continue
		}
		if query.Date != nil {
			dayStart := query.Date.Truncate(24 * time.Hour)
			if f.DepartureAt.Before(dayStart) || !f.DepartureAt.Before(dayStart.Add(24*time.Hour)) {
				continue
			}
		}
		matched = append(matched, *f)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].DepartureAt.Before(matched[j].DepartureAt)
	})

	total := int64(len(matched))
	offset := (query.Page - 1) * query.Limit
	if offset >= len(matched) {
		return []Flight{}, total, nil
	}
	end := offset + query.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (m *MemoryStore) CreateFlight(ctx context.Context, flight *Flight) error {
	if flight.ID == uuid.Nil {
		flight.ID = uuid.New()
	}
	now := time.Now().UTC()
	flight.CreatedAt = now
	flight.UpdatedAt = now
	for i := range flight.Seats {
		if flight.Seats[i].ID == uuid.Nil {
			flight.Seats[i].ID = uuid.New()
		}
		flight.Seats[i].FlightID = flight.ID
		flight.Seats[i].CreatedAt = now
		flight.Seats[i].UpdatedAt = now
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.flights[flight.ID] = &flightRecord{flight: *cloneFlight(flight)}
	return nil
}

func (m *MemoryStore) DeleteFlight(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flights[id]; !ok {
		return apperrors.ErrFlightNotFound
	}
	delete(m.flights, id)
	return nil
}

func (m *MemoryStore) CommitSeats(ctx context.Context, flightID uuid.UUID, seatIDs []uuid.UUID, expectedVersion int64) (*Flight, error) {
	if len(seatIDs) == 0 {
		return nil, apperrors.ErrInvalidRequest
	}

	m.mu.RLock()
	rec, ok := m.flights[flightID]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.ErrFlightNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.flight.Version != expectedVersion {
		return nil, apperrors.ErrVersionConflict
	}

	// Validate the whole selection before flipping anything.
	targets := make([]*Seat, 0, len(seatIDs))
	for _, seatID := range seatIDs {
		seat := rec.flight.SeatByID(seatID)
		if seat == nil {
			return nil, &apperrors.UnknownSeatError{SeatID: seatID.String()}
		}
		if seat.IsBooked {
			return nil, &apperrors.SeatUnavailableError{
				SeatID:     seat.ID.String(),
				SeatNumber: seat.SeatNumber,
			}
		}
		targets = append(targets, seat)
	}

	now := time.Now().UTC()
	for _, seat := range targets {
		seat.IsBooked = true
		seat.UpdatedAt = now
	}
	rec.flight.Version++
	rec.flight.UpdatedAt = now

	return cloneFlight(&rec.flight), nil
}

func (m *MemoryStore) ReleaseSeats(ctx context.Context, flightID uuid.UUID, seatIDs []uuid.UUID) error {
	if len(seatIDs) == 0 {
		return nil
	}

	m.mu.RLock()
	rec, ok := m.flights[flightID]
	m.mu.RUnlock()
	if !ok {
		return apperrors.ErrFlightNotFound
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	now := time.Now().UTC()
	for _, seatID := range seatIDs {
		if seat := rec.flight.SeatByID(seatID); seat != nil && seat.IsBooked {
			seat.IsBooked = false
			seat.UpdatedAt = now
		}
	}
	rec.flight.Version++
	rec.flight.UpdatedAt = now
	return nil
}

func cloneFlight(f *Flight) *Flight {
	out := *f
	out.Seats = make([]Seat, len(f.Seats))
	copy(out.Seats, f.Seats)
	return &out
}

var _ Store = (*MemoryStore)(nil)
