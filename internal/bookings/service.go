package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"aerobook/internal/flights"
	"aerobook/internal/notifications"
	"aerobook/internal/shared/apperrors"
	"aerobook/internal/users"
	"aerobook/pkg/logger"

	"github.com/google/uuid"
)

// EventPublisher publishes booking lifecycle events. Nil publishers are
// allowed: the engine runs without Kafka in development and tests, and a
// publish failure never rolls back a committed booking.
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event notifications.BookingEvent) error
}

// Service is the reservation coordinator plus the booking ledger's guarded
// transitions.
type Service interface {
	// BookSeats atomically reserves the requested seats and creates the
	// ledger entry, or fails leaving all state untouched.
	BookSeats(ctx context.Context, userID uuid.UUID, flightID string, req BookSeatsRequest) (*Booking, error)

	GetBooking(ctx context.Context, bookingID string, actorID uuid.UUID, actorRole string) (*Booking, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, req BookingListRequest) (*BookingListResponse, error)

	CancelBooking(ctx context.Context, bookingID string, actorID uuid.UUID, actorRole string, reason string) (*Booking, error)
	ConfirmBooking(ctx context.Context, bookingID string, actorID uuid.UUID) (*Booking, error)
	CompleteBooking(ctx context.Context, bookingID string, actorID uuid.UUID) (*Booking, error)

	// MarkPaid is the payment collaborator hook: attach the payment reference
	// and flip payment status to paid after out-of-band confirmation.
	MarkPaid(ctx context.Context, bookingID string, req MarkPaidRequest) (*Booking, error)
}

type service struct {
	repo          Repository
	store         flights.Store
	publisher     EventPublisher
	log           *logger.Logger
	commitRetries int
	currency      string
}

// Option tunes the booking service
type Option func(*service)

// WithCommitRetries bounds the optimistic-concurrency retry loop
func WithCommitRetries(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.commitRetries = n
		}
	}
}

// WithCurrency sets the pricing currency recorded on ledger entries
func WithCurrency(code string) Option {
	return func(s *service) {
		if code != "" {
			s.currency = code
		}
	}
}

// WithEventPublisher attaches the booking-event publisher
func WithEventPublisher(p EventPublisher) Option {
	return func(s *service) {
		s.publisher = p
	}
}

// NewService creates a booking service over the ledger repository and the
// seat inventory store.
func NewService(repo Repository, store flights.Store, opts ...Option) Service {
	svc := &service{
		repo:          repo,
		store:         store,
		log:           logger.GetDefault(),
		commitRetries: 3,
		currency:      "USD",
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func (s *service) BookSeats(ctx context.Context, userID uuid.UUID, flightID string, req BookSeatsRequest) (*Booking, error) {
	fid, err := uuid.Parse(flightID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid flight ID", apperrors.ErrInvalidRequest)
	}

	// Precondition-check-and-commit cycle. Preconditions are ordered: flight
	// exists, has not departed, then the seat selection is validated. A
	// version conflict means another booking moved the flight underneath us;
	// re-read and try again up to the retry bound.
	var committed *flights.Flight
	var selected []flights.Seat
	var seatIDs []uuid.UUID
	for attempt := 0; ; attempt++ {
		flight, err := s.store.GetFlight(ctx, fid)
		if err != nil {
			return nil, err
		}
		if flight.HasDeparted(time.Now()) {
			return nil, apperrors.ErrAlreadyDeparted
		}
		if seatIDs == nil {
			if seatIDs, err = parseSeatIDs(req.SeatIDs); err != nil {
				return nil, err
			}
		}
		selected, err = flights.FindSeats(flight, seatIDs)
		if err != nil {
			return nil, err
		}

		// Caller cancellation is honored before the commit point only; once
		// seats commit we always finish the ledger write.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		committed, err = s.store.CommitSeats(ctx, fid, seatIDs, flight.Version)
		if err == nil {
			break
		}
		if errors.Is(err, apperrors.ErrVersionConflict) && attempt < s.commitRetries {
			continue
		}
		return nil, err
	}

	totalPrice := 0.0
	bookedSeats := make([]BookedSeat, 0, len(selected))
	seatNumbers := make([]string, 0, len(selected))
	for _, seat := range selected {
		totalPrice += seat.Price
		seatNumbers = append(seatNumbers, seat.SeatNumber)
		bookedSeats = append(bookedSeats, BookedSeat{
			SeatID:     seat.ID,
			SeatNumber: seat.SeatNumber,
			Class:      seat.Class,
			SeatPrice:  seat.Price,
		})
	}

	bookingRef, err := generateBookingRef()
	if err != nil {
		s.compensateSeats(fid, seatIDs)
		return nil, fmt.Errorf("%w: generate booking ref: %v", apperrors.ErrPersistenceFailed, err)
	}

	booking := &Booking{
		UserID:      userID,
		ProductType: ProductFlight,
		BookingRef:  bookingRef,
		TotalPrice:  totalPrice,
		Currency:    s.currency,
		Status:      StatusConfirmed,
		Payment:     PaymentPending,
		Flight: FlightDetails{
			FlightID:     &committed.ID,
			Airline:      committed.Airline,
			FlightNumber: committed.FlightNumber,
			FromCode:     committed.From.Code,
			FromCity:     committed.From.City,
			ToCode:       committed.To.Code,
			ToCity:       committed.To.City,
			DepartureAt:  &committed.DepartureAt,
			ArrivalAt:    &committed.ArrivalAt,
			SeatClass:    string(selected[0].Class),
		},
		BookedSeats: bookedSeats,
		Passengers:  toPassengers(req.Passengers),
	}

	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		// Seats are committed but the ledger write failed: compensate by
		// releasing them, then surface the failure.
		s.compensateSeats(fid, seatIDs)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}

	s.publish(ctx, "booking_confirmed", booking, seatNumbers)
	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, bookingID string, actorID uuid.UUID, actorRole string) (*Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(booking, actorID, actorRole); err != nil {
		return nil, err
	}
	return booking, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, req BookingListRequest) (*BookingListResponse, error) {
	results, total, err := s.repo.GetUserBookings(ctx, userID, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}
	return &BookingListResponse{
		Count:    len(results),
		Total:    total,
		Page:     req.Page,
		Bookings: results,
	}, nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID string, actorID uuid.UUID, actorRole string, reason string) (*Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(booking, actorID, actorRole); err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(StatusCancelled) {
		return nil, &apperrors.IllegalTransitionError{From: booking.Status.String(), To: StatusCancelled.String()}
	}

	// The guarded transition is the gate: it flips status exactly once, so a
	// concurrent double-cancel cannot release seats twice.
	updated, err := s.repo.TransitionStatus(ctx, booking.ID, booking.Status, StatusCancelled, TransitionUpdate{
		Actor:  actorID,
		At:     time.Now().UTC(),
		Reason: reason,
	})
	if err != nil {
		return nil, err
	}

	if updated.ProductType == ProductFlight && updated.Flight.FlightID != nil {
		if seatIDs := updated.SeatIDs(); len(seatIDs) > 0 {
			// The status flip is the point of no return. The release runs as
			// compensation on a fresh context so a transient store failure
			// cannot strand a cancelled booking's seats behind a transition
			// that can never be retried.
			s.compensateSeats(*updated.Flight.FlightID, seatIDs)
		}
	}

	s.publish(ctx, "booking_cancelled", updated, nil)
	return updated, nil
}

func (s *service) ConfirmBooking(ctx context.Context, bookingID string, actorID uuid.UUID) (*Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(StatusConfirmed) {
		return nil, &apperrors.IllegalTransitionError{From: booking.Status.String(), To: StatusConfirmed.String()}
	}

	updated, err := s.repo.TransitionStatus(ctx, booking.ID, StatusPending, StatusConfirmed, TransitionUpdate{
		Actor: actorID,
		At:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_confirmed", updated, nil)
	return updated, nil
}

func (s *service) CompleteBooking(ctx context.Context, bookingID string, actorID uuid.UUID) (*Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(StatusCompleted) {
		return nil, &apperrors.IllegalTransitionError{From: booking.Status.String(), To: StatusCompleted.String()}
	}

	updated, err := s.repo.TransitionStatus(ctx, booking.ID, StatusConfirmed, StatusCompleted, TransitionUpdate{
		Actor: actorID,
		At:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_completed", updated, nil)
	return updated, nil
}

func (s *service) MarkPaid(ctx context.Context, bookingID string, req MarkPaidRequest) (*Booking, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.MarkPaid(ctx, booking.ID, req.PaymentRef, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "payment_received", updated, nil)
	return updated, nil
}

// compensateSeats releases seats that are committed in inventory but no
// longer backed by a live booking. Best effort on a fresh context with a
// bounded retry: the request context may already be cancelled, and leaking
// booked-but-unrecorded seats is the worse outcome.
func (s *service) compensateSeats(flightID uuid.UUID, seatIDs []uuid.UUID) {
	releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		if err = s.store.ReleaseSeats(releaseCtx, flightID, seatIDs); err == nil {
			return
		}
		time.Sleep(time.Duration(attempt+1) * 50 * time.Millisecond)
	}
	s.log.Error("seat compensation failed, seats may be stranded",
		slog.String("flight_id", flightID.String()),
		slog.Any("error", err),
	)
}

func (s *service) publish(ctx context.Context, eventType string, booking *Booking, seatNumbers []string) {
	if s.publisher == nil {
		return
	}
	flightIDStr := ""
	if booking.Flight.FlightID != nil {
		flightIDStr = booking.Flight.FlightID.String()
	}
	event := notifications.BookingEvent{
		Type:        eventType,
		BookingID:   booking.ID.String(),
		BookingRef:  booking.BookingRef,
		UserID:      booking.UserID.String(),
		ProductType: string(booking.ProductType),
		FlightID:    flightIDStr,
		SeatNumbers: seatNumbers,
		TotalPrice:  booking.TotalPrice,
		Currency:    booking.Currency,
		Status:      booking.Status.String(),
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.publisher.PublishBookingEvent(ctx, event); err != nil {
		s.log.Warn("failed to publish booking event",
			slog.String("type", eventType),
			slog.String("booking_id", event.BookingID),
			slog.Any("error", err),
		)
	}
}

func (s *service) loadBooking(ctx context.Context, bookingID string) (*Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID", apperrors.ErrInvalidRequest)
	}
	return s.repo.GetBookingByID(ctx, id)
}

func authorize(booking *Booking, actorID uuid.UUID, actorRole string) error {
	if booking.UserID == actorID || actorRole == string(users.RoleAdmin) {
		return nil
	}
	return apperrors.ErrUnauthorized
}

func parseSeatIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: seat selection must not be empty", apperrors.ErrInvalidRequest)
	}
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid seat ID %q", apperrors.ErrInvalidRequest, s)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func toPassengers(reqs []PassengerRequest) []Passenger {
	out := make([]Passenger, 0, len(reqs))
	for _, p := range reqs {
		out = append(out, Passenger{
			FirstName:      p.FirstName,
			LastName:       p.LastName,
			DateOfBirth:    p.DateOfBirth,
			PassportNumber: p.PassportNumber,
			Nationality:    p.Nationality,
		})
	}
	return out
}

const bookingRefCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateBookingRef produces a short human-readable reference like BK7XQ2M9
func generateBookingRef() (string, error) {
	ref := make([]byte, 8)
	for i := range ref {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingRefCharset))))
		if err != nil {
			return "", err
		}
		ref[i] = bookingRefCharset[n.Int64()]
	}
	return "BK" + string(ref), nil
}
