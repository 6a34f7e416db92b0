package bookings

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aerobook/internal/flights"
	"aerobook/internal/notifications"
	"aerobook/internal/shared/apperrors"
	"aerobook/internal/users"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateBooking(ctx context.Context, booking *Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	return args.Get(0).([]Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to Status, upd TransitionUpdate) (*Booking, error) {
	args := m.Called(ctx, id, from, to, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef, paymentMethod string) (*Booking, error) {
	args := m.Called(ctx, id, paymentRef, paymentMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBookingEvent(ctx context.Context, event notifications.BookingEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func seedInventory(t *testing.T, seatCount int) (*flights.MemoryStore, *flights.Flight) {
	t.Helper()

	store := flights.NewMemoryStore()
	flight := &flights.Flight{
		Airline:      "KLM",
		FlightNumber: "KL590",
		From:         flights.Endpoint{Code: "ACC", City: "Accra"},
		To:           flights.Endpoint{Code: "AMS", City: "Amsterdam"},
		DepartureAt:  time.Now().Add(96 * time.Hour),
		ArrivalAt:    time.Now().Add(103 * time.Hour),
		Duration:     410,
	}
	letters := "ABCDEF"
	for i := 0; i < seatCount; i++ {
		flight.Seats = append(flight.Seats, flights.Seat{
			SeatNumber: string(letters[i%6]) + "1",
			Class:      flights.ClassEconomy,
			Price:      float64(500 + 10*i),
		})
	}
	require.NoError(t, store.CreateFlight(context.Background(), flight))
	return store, flight
}

func seatIDStrings(flight *flights.Flight, idx ...int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, flight.Seats[i].ID.String())
	}
	return out
}

func TestBookSeatsHappyPath(t *testing.T) {
	store, flight := seedInventory(t, 4)
	repo := new(MockRepository)
	repo.On("CreateBooking", mock.Anything, mock.AnythingOfType("*bookings.Booking")).Return(nil)

	svc := NewService(repo, store)
	userID := uuid.New()

	booking, err := svc.BookSeats(context.Background(), userID, flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0, 1),
		Passengers: []PassengerRequest{
			{FirstName: "Ama", LastName: "Mensah"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, userID, booking.UserID)
	assert.Equal(t, ProductFlight, booking.ProductType)
	assert.Equal(t, StatusConfirmed, booking.Status)
	assert.Equal(t, PaymentPending, booking.Payment)
	assert.Equal(t, flight.Seats[0].Price+flight.Seats[1].Price, booking.TotalPrice)
	assert.True(t, strings.HasPrefix(booking.BookingRef, "BK"))
	assert.Len(t, booking.BookingRef, 10)
	assert.Len(t, booking.BookedSeats, 2)
	assert.Len(t, booking.Passengers, 1)
	require.NotNil(t, booking.Flight.FlightID)
	assert.Equal(t, flight.ID, *booking.Flight.FlightID)
	assert.Equal(t, "ACC", booking.Flight.FromCode)

	// Seats are flipped in the inventory.
	current, err := store.GetFlight(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.True(t, current.SeatByID(flight.Seats[0].ID).IsBooked)
	assert.True(t, current.SeatByID(flight.Seats[1].ID).IsBooked)
	assert.False(t, current.SeatByID(flight.Seats[2].ID).IsBooked)

	repo.AssertExpectations(t)
}

func TestBookSeatsCapturesPriceAtCommit(t *testing.T) {
	store, flight := seedInventory(t, 2)
	repo := new(MockRepository)
	repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, store)
	booking, err := svc.BookSeats(context.Background(), uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0),
	})
	require.NoError(t, err)

	require.Len(t, booking.BookedSeats, 1)
	assert.Equal(t, flight.Seats[0].Price, booking.BookedSeats[0].SeatPrice)
	assert.Equal(t, flight.Seats[0].SeatNumber, booking.BookedSeats[0].SeatNumber)
}

func TestBookSeatsFlightDeparted(t *testing.T) {
	store := flights.NewMemoryStore()
	flight := &flights.Flight{
		Airline:      "KLM",
		FlightNumber: "KL590",
		DepartureAt:  time.Now().Add(-time.Hour),
		ArrivalAt:    time.Now().Add(5 * time.Hour),
		Seats: []flights.Seat{
			{SeatNumber: "A1", Class: flights.ClassEconomy, Price: 500},
		},
	}
	require.NoError(t, store.CreateFlight(context.Background(), flight))

	repo := new(MockRepository)
	svc := NewService(repo, store)

	_, err := svc.BookSeats(context.Background(), uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0),
	})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyDeparted)

	// Nothing touched the inventory.
	current, err := store.GetFlight(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.False(t, current.Seats[0].IsBooked)
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookSeatsUnknownSeat(t *testing.T) {
	store, flight := seedInventory(t, 2)
	repo := new(MockRepository)
	svc := NewService(repo, store)

	_, err := svc.BookSeats(context.Background(), uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: []string{uuid.New().String()},
	})
	require.Error(t, err)
	_, unknown := apperrors.IsUnknownSeat(err)
	assert.True(t, unknown)
}

func TestBookSeatsSeatAlreadyBooked(t *testing.T) {
	store, flight := seedInventory(t, 2)
	ctx := context.Background()

	_, err := store.CommitSeats(ctx, flight.ID, []uuid.UUID{flight.Seats[0].ID}, 0)
	require.NoError(t, err)

	repo := new(MockRepository)
	svc := NewService(repo, store)

	_, err = svc.BookSeats(ctx, uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0, 1),
	})
	require.Error(t, err)
	_, unavailable := apperrors.IsSeatUnavailable(err)
	assert.True(t, unavailable)

	// The free seat from the failed selection stayed free.
	current, err := store.GetFlight(ctx, flight.ID)
	require.NoError(t, err)
	assert.False(t, current.SeatByID(flight.Seats[1].ID).IsBooked)
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookSeatsInvalidInput(t *testing.T) {
	store, flight := seedInventory(t, 1)
	svc := NewService(new(MockRepository), store)
	ctx := context.Background()

	_, err := svc.BookSeats(ctx, uuid.New(), "not-a-uuid", BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = svc.BookSeats(ctx, uuid.New(), flight.ID.String(), BookSeatsRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)

	_, err = svc.BookSeats(ctx, uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: []string{"front-row-please"},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
}

func TestBookSeatsChecksFlightBeforeSeatList(t *testing.T) {
	store, _ := seedInventory(t, 1)
	svc := NewService(new(MockRepository), store)

	// Unknown flight wins over a malformed seat selection.
	_, err := svc.BookSeats(context.Background(), uuid.New(), uuid.New().String(), BookSeatsRequest{
		SeatIDs: []string{"front-row-please"},
	})
	assert.ErrorIs(t, err, apperrors.ErrFlightNotFound)
}

// conflictingStore forces a fixed number of version conflicts before
// delegating, exercising the coordinator's retry loop.
type conflictingStore struct {
	flights.Store
	conflicts int
}

func (c *conflictingStore) CommitSeats(ctx context.Context, flightID uuid.UUID, seatIDs []uuid.UUID, expectedVersion int64) (*flights.Flight, error) {
	if c.conflicts > 0 {
		c.conflicts--
		return nil, apperrors.ErrVersionConflict
	}
	return c.Store.CommitSeats(ctx, flightID, seatIDs, expectedVersion)
}

func TestBookSeatsRetriesOnVersionConflict(t *testing.T) {
	store, flight := seedInventory(t, 2)
	repo := new(MockRepository)
	repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, &conflictingStore{Store: store, conflicts: 2}, WithCommitRetries(3))

	booking, err := svc.BookSeats(context.Background(), uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, booking.Status)
}

func TestBookSeatsGivesUpAfterRetryBudget(t *testing.T) {
	store, flight := seedInventory(t, 2)
	repo := new(MockRepository)

	svc := NewService(repo, &conflictingStore{Store: store, conflicts: 10}, WithCommitRetries(2))

	_, err := svc.BookSeats(context.Background(), uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0),
	})
	assert.ErrorIs(t, err, apperrors.ErrVersionConflict)
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestBookSeatsCompensatesOnLedgerFailure(t *testing.T) {
	store, flight := seedInventory(t, 2)
	repo := new(MockRepository)
	repo.On("CreateBooking", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	svc := NewService(repo, store)

	_, err := svc.BookSeats(context.Background(), uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0, 1),
	})
	assert.ErrorIs(t, err, apperrors.ErrPersistenceFailed)

	// Compensation released the committed seats; they are bookable again.
	current, err := store.GetFlight(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.False(t, current.SeatByID(flight.Seats[0].ID).IsBooked)
	assert.False(t, current.SeatByID(flight.Seats[1].ID).IsBooked)
}

func TestBookSeatsHonorsCancelledContext(t *testing.T) {
	store, flight := seedInventory(t, 1)
	repo := new(MockRepository)
	svc := NewService(repo, store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.BookSeats(ctx, uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0),
	})
	assert.ErrorIs(t, err, context.Canceled)

	current, err := store.GetFlight(context.Background(), flight.ID)
	require.NoError(t, err)
	assert.False(t, current.Seats[0].IsBooked)
}

func TestCancelBookingReleasesSeats(t *testing.T) {
	store, flight := seedInventory(t, 2)
	ctx := context.Background()
	userID := uuid.New()

	// Book through the coordinator so the inventory really holds the seats.
	repo := new(MockRepository)
	repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(repo, store)

	booking, err := svc.BookSeats(ctx, userID, flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0, 1),
	})
	require.NoError(t, err)

	booking.ID = uuid.New()
	cancelled := *booking
	cancelled.Status = StatusCancelled

	repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	repo.On("TransitionStatus", mock.Anything, booking.ID, StatusConfirmed, StatusCancelled, mock.Anything).
		Return(&cancelled, nil)

	updated, err := svc.CancelBooking(ctx, booking.ID.String(), userID, string(users.RoleUser), "change of plans")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)

	current, err := store.GetFlight(ctx, flight.ID)
	require.NoError(t, err)
	assert.False(t, current.SeatByID(flight.Seats[0].ID).IsBooked)
	assert.False(t, current.SeatByID(flight.Seats[1].ID).IsBooked)

	// The freed seats can be booked again.
	_, err = store.CommitSeats(ctx, flight.ID, []uuid.UUID{flight.Seats[0].ID}, current.Version)
	assert.NoError(t, err)
}

// flakyReleaseStore fails a fixed number of seat releases before delegating,
// exercising the compensation retry after the cancel transition committed.
type flakyReleaseStore struct {
	flights.Store
	failures int
}

func (f *flakyReleaseStore) ReleaseSeats(ctx context.Context, flightID uuid.UUID, seatIDs []uuid.UUID) error {
	if f.failures > 0 {
		f.failures--
		return errors.New("connection reset")
	}
	return f.Store.ReleaseSeats(ctx, flightID, seatIDs)
}

func TestCancelBookingSurvivesTransientReleaseFailure(t *testing.T) {
	store, flight := seedInventory(t, 2)
	ctx := context.Background()
	userID := uuid.New()

	repo := new(MockRepository)
	repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(repo, &flakyReleaseStore{Store: store, failures: 1})

	booking, err := svc.BookSeats(ctx, userID, flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0, 1),
	})
	require.NoError(t, err)

	booking.ID = uuid.New()
	cancelled := *booking
	cancelled.Status = StatusCancelled

	repo.On("GetBookingByID", mock.Anything, booking.ID).Return(booking, nil)
	repo.On("TransitionStatus", mock.Anything, booking.ID, StatusConfirmed, StatusCancelled, mock.Anything).
		Return(&cancelled, nil)

	// The cancel transition already committed, so a release hiccup must not
	// fail the cancellation or strand the seats.
	updated, err := svc.CancelBooking(ctx, booking.ID.String(), userID, string(users.RoleUser), "change of plans")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)

	current, err := store.GetFlight(ctx, flight.ID)
	require.NoError(t, err)
	assert.False(t, current.SeatByID(flight.Seats[0].ID).IsBooked)
	assert.False(t, current.SeatByID(flight.Seats[1].ID).IsBooked)

	_, err = store.CommitSeats(ctx, flight.ID, []uuid.UUID{flight.Seats[0].ID}, current.Version)
	assert.NoError(t, err)
}

func TestCancelBookingDoubleCancel(t *testing.T) {
	repo := new(MockRepository)
	store, _ := seedInventory(t, 1)
	svc := NewService(repo, store)

	bookingID := uuid.New()
	userID := uuid.New()
	repo.On("GetBookingByID", mock.Anything, bookingID).Return(&Booking{
		ID:     bookingID,
		UserID: userID,
		Status: StatusCancelled,
	}, nil)

	_, err := svc.CancelBooking(context.Background(), bookingID.String(), userID, string(users.RoleUser), "")
	require.Error(t, err)
	_, illegal := apperrors.IsIllegalTransition(err)
	assert.True(t, illegal)
}

func TestCancelBookingRequiresOwnerOrAdmin(t *testing.T) {
	repo := new(MockRepository)
	store, _ := seedInventory(t, 1)
	svc := NewService(repo, store)

	bookingID := uuid.New()
	owner := uuid.New()
	repo.On("GetBookingByID", mock.Anything, bookingID).Return(&Booking{
		ID:     bookingID,
		UserID: owner,
		Status: StatusConfirmed,
	}, nil)

	_, err := svc.CancelBooking(context.Background(), bookingID.String(), uuid.New(), string(users.RoleUser), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestCompleteBookingRequiresConfirmed(t *testing.T) {
	repo := new(MockRepository)
	store, _ := seedInventory(t, 1)
	svc := NewService(repo, store)

	bookingID := uuid.New()
	repo.On("GetBookingByID", mock.Anything, bookingID).Return(&Booking{
		ID:     bookingID,
		Status: StatusPending,
	}, nil)

	_, err := svc.CompleteBooking(context.Background(), bookingID.String(), uuid.New())
	require.Error(t, err)
	_, illegal := apperrors.IsIllegalTransition(err)
	assert.True(t, illegal)
}

func TestGetBookingAuthorization(t *testing.T) {
	repo := new(MockRepository)
	store, _ := seedInventory(t, 1)
	svc := NewService(repo, store)

	bookingID := uuid.New()
	owner := uuid.New()
	repo.On("GetBookingByID", mock.Anything, bookingID).Return(&Booking{
		ID:     bookingID,
		UserID: owner,
		Status: StatusConfirmed,
	}, nil)

	// Owner sees it.
	_, err := svc.GetBooking(context.Background(), bookingID.String(), owner, string(users.RoleUser))
	assert.NoError(t, err)

	// Admin sees it.
	_, err = svc.GetBooking(context.Background(), bookingID.String(), uuid.New(), string(users.RoleAdmin))
	assert.NoError(t, err)

	// A stranger does not.
	_, err = svc.GetBooking(context.Background(), bookingID.String(), uuid.New(), string(users.RoleUser))
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestBookSeatsPublishesEvent(t *testing.T) {
	store, flight := seedInventory(t, 1)
	repo := new(MockRepository)
	repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)

	pub := new(MockPublisher)
	pub.On("PublishBookingEvent", mock.Anything, mock.MatchedBy(func(e notifications.BookingEvent) bool {
		return e.Type == "booking_confirmed" && e.ProductType == string(ProductFlight)
	})).Return(nil)

	svc := NewService(repo, store, WithEventPublisher(pub))

	_, err := svc.BookSeats(context.Background(), uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0),
	})
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestBookSeatsSurvivesPublishFailure(t *testing.T) {
	store, flight := seedInventory(t, 1)
	repo := new(MockRepository)
	repo.On("CreateBooking", mock.Anything, mock.Anything).Return(nil)

	pub := new(MockPublisher)
	pub.On("PublishBookingEvent", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	svc := NewService(repo, store, WithEventPublisher(pub))

	booking, err := svc.BookSeats(context.Background(), uuid.New(), flight.ID.String(), BookSeatsRequest{
		SeatIDs: seatIDStrings(flight, 0),
	})
	require.NoError(t, err, "publish failure must not fail the booking")
	assert.Equal(t, StatusConfirmed, booking.Status)
}
