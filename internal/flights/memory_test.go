package flights

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aerobook/internal/shared/apperrors"
)

func seedMemoryStore(t *testing.T, seatCount int) (*MemoryStore, *Flight) {
	t.Helper()

	store := NewMemoryStore()
	flight := &Flight{
		Airline:      "Emirates",
		FlightNumber: "EK788",
		From:         Endpoint{Code: "ACC", City: "Accra"},
		To:           Endpoint{Code: "DXB", City: "Dubai"},
		DepartureAt:  time.Now().Add(72 * time.Hour),
		ArrivalAt:    time.Now().Add(80 * time.Hour),
		Duration:     490,
	}
	for i := 0; i < seatCount; i++ {
		flight.Seats = append(flight.Seats, Seat{
			SeatNumber: seatNumberFor(i),
			Class:      ClassEconomy,
			Price:      600,
		})
	}
	require.NoError(t, store.CreateFlight(context.Background(), flight))
	return store, flight
}

func seatNumberFor(i int) string {
	letters := "ABCDEF"
	return string(letters[i%6]) + string(rune('1'+i/6))
}

func TestCommitSeatsHappyPath(t *testing.T) {
	store, flight := seedMemoryStore(t, 6)
	ctx := context.Background()

	target := []uuid.UUID{flight.Seats[0].ID, flight.Seats[1].ID}
	updated, err := store.CommitSeats(ctx, flight.ID, target, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(1), updated.Version)
	assert.True(t, updated.SeatByID(target[0]).IsBooked)
	assert.True(t, updated.SeatByID(target[1]).IsBooked)
	assert.False(t, updated.SeatByID(flight.Seats[2].ID).IsBooked)
}

func TestCommitSeatsStaleVersion(t *testing.T) {
	store, flight := seedMemoryStore(t, 6)
	ctx := context.Background()

	_, err := store.CommitSeats(ctx, flight.ID, []uuid.UUID{flight.Seats[0].ID}, 0)
	require.NoError(t, err)

	// Same expected version again: someone else already moved the flight.
	_, err = store.CommitSeats(ctx, flight.ID, []uuid.UUID{flight.Seats[1].ID}, 0)
	assert.ErrorIs(t, err, apperrors.ErrVersionConflict)
}

func TestCommitSeatsAllOrNothing(t *testing.T) {
	store, flight := seedMemoryStore(t, 6)
	ctx := context.Background()

	// Book seat 2 first so a mixed selection must fail.
	_, err := store.CommitSeats(ctx, flight.ID, []uuid.UUID{flight.Seats[2].ID}, 0)
	require.NoError(t, err)

	_, err = store.CommitSeats(ctx, flight.ID,
		[]uuid.UUID{flight.Seats[0].ID, flight.Seats[2].ID}, 1)
	require.Error(t, err)
	_, unavailable := apperrors.IsSeatUnavailable(err)
	assert.True(t, unavailable)

	// The free seat in the failed selection must remain free.
	current, err := store.GetFlight(ctx, flight.ID)
	require.NoError(t, err)
	assert.False(t, current.SeatByID(flight.Seats[0].ID).IsBooked)
	assert.Equal(t, int64(1), current.Version, "failed commit must not bump the version")
}

func TestCommitSeatsUnknownSeat(t *testing.T) {
	store, flight := seedMemoryStore(t, 3)

	_, err := store.CommitSeats(context.Background(), flight.ID,
		[]uuid.UUID{flight.Seats[0].ID, uuid.New()}, 0)
	require.Error(t, err)
	_, unknown := apperrors.IsUnknownSeat(err)
	assert.True(t, unknown)
}

func TestCommitSeatsUnknownFlight(t *testing.T) {
	store, _ := seedMemoryStore(t, 3)

	_, err := store.CommitSeats(context.Background(), uuid.New(), []uuid.UUID{uuid.New()}, 0)
	assert.ErrorIs(t, err, apperrors.ErrFlightNotFound)
}

func TestReleaseSeatsMakesSeatsRebookable(t *testing.T) {
	store, flight := seedMemoryStore(t, 4)
	ctx := context.Background()

	target := []uuid.UUID{flight.Seats[0].ID, flight.Seats[1].ID}
	_, err := store.CommitSeats(ctx, flight.ID, target, 0)
	require.NoError(t, err)

	require.NoError(t, store.ReleaseSeats(ctx, flight.ID, target))

	current, err := store.GetFlight(ctx, flight.ID)
	require.NoError(t, err)
	assert.False(t, current.SeatByID(target[0]).IsBooked)
	assert.False(t, current.SeatByID(target[1]).IsBooked)

	// And the same seats can be booked again at the new version.
	_, err = store.CommitSeats(ctx, flight.ID, target, current.Version)
	assert.NoError(t, err)
}

func TestGetFlightReturnsSnapshot(t *testing.T) {
	store, flight := seedMemoryStore(t, 3)
	ctx := context.Background()

	snapshot, err := store.GetFlight(ctx, flight.ID)
	require.NoError(t, err)

	// Mutating the snapshot must not leak into the store.
	snapshot.Seats[0].IsBooked = true

	fresh, err := store.GetFlight(ctx, flight.ID)
	require.NoError(t, err)
	assert.False(t, fresh.Seats[0].IsBooked)
}

// Concurrent commits on disjoint seats: with read-check-commit retry on
// version conflicts, every request must eventually succeed.
func TestConcurrentDisjointCommitsAllSucceed(t *testing.T) {
	const workers = 4
	store, flight := seedMemoryStore(t, workers)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			seat := []uuid.UUID{flight.Seats[w].ID}
			for {
				current, err := store.GetFlight(ctx, flight.ID)
				if err != nil {
					errs[w] = err
					return
				}
				_, err = store.CommitSeats(ctx, flight.ID, seat, current.Version)
				if err == nil {
					return
				}
				if !errors.Is(err, apperrors.ErrVersionConflict) {
					errs[w] = err
					return
				}
			}
		}(w)
	}
	wg.Wait()

	for w, err := range errs {
		assert.NoError(t, err, "worker %d", w)
	}

	final, err := store.GetFlight(ctx, flight.ID)
	require.NoError(t, err)
	for i := 0; i < workers; i++ {
		assert.True(t, final.SeatByID(flight.Seats[i].ID).IsBooked)
	}
	assert.Equal(t, int64(workers), final.Version)
}

// Concurrent commits for the same seat: exactly one wins, the rest observe
// either a version conflict or the seat already booked.
func TestConcurrentOverlappingCommitsOneWinner(t *testing.T) {
	const workers = 8
	store, flight := seedMemoryStore(t, 1)
	ctx := context.Background()
	seat := []uuid.UUID{flight.Seats[0].ID}

	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				current, err := store.GetFlight(ctx, flight.ID)
				if err != nil {
					return
				}
				_, err = store.CommitSeats(ctx, flight.ID, seat, current.Version)
				if err == nil {
					wins <- struct{}{}
					return
				}
				if _, unavailable := apperrors.IsSeatUnavailable(err); unavailable {
					return
				}
				if !errors.Is(err, apperrors.ErrVersionConflict) {
					t.Errorf("unexpected error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
	close(wins)

	winners := 0
	for range wins {
		winners++
	}
	assert.Equal(t, 1, winners, "exactly one commit may win the seat")

	final, err := store.GetFlight(ctx, flight.ID)
	require.NoError(t, err)
	assert.True(t, final.SeatByID(seat[0]).IsBooked)
}
