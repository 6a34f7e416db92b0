package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the booking engine. Services return these (wrapped with
// context via %w); controllers map them to HTTP status codes.
var (
	ErrFlightNotFound    = errors.New("flight not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrVersionConflict   = errors.New("inventory version conflict")
	ErrAlreadyDeparted   = errors.New("flight has already departed")
	ErrUnauthorized      = errors.New("not authorized for this booking")
	ErrUpstreamProvider  = errors.New("flight provider unavailable")
	ErrPersistenceFailed = errors.New("booking persistence failed")
)

// SeatUnavailableError identifies the contested seat so the client can
// re-offer seat selection without restarting the whole flow.
type SeatUnavailableError struct {
	SeatID     string
	SeatNumber string
}

func (e *SeatUnavailableError) Error() string {
	if e.SeatNumber != "" {
		return fmt.Sprintf("seat %s is already booked", e.SeatNumber)
	}
	return fmt.Sprintf("seat %s is already booked", e.SeatID)
}

// UnknownSeatError reports a requested seat ID that does not exist on the flight.
type UnknownSeatError struct {
	SeatID string
}

func (e *UnknownSeatError) Error() string {
	return fmt.Sprintf("seat %s not found on this flight", e.SeatID)
}

// IllegalTransitionError reports a booking state-machine violation,
// e.g. cancelling an already-cancelled booking.
type IllegalTransitionError struct {
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal booking transition from %s to %s", e.From, e.To)
}

// IsSeatUnavailable reports whether err wraps a SeatUnavailableError.
func IsSeatUnavailable(err error) (*SeatUnavailableError, bool) {
	var su *SeatUnavailableError
	if errors.As(err, &su) {
		return su, true
	}
	return nil, false
}

// IsUnknownSeat reports whether err wraps an UnknownSeatError.
func IsUnknownSeat(err error) (*UnknownSeatError, bool) {
	var us *UnknownSeatError
	if errors.As(err, &us) {
		return us, true
	}
	return nil, false
}

// IsIllegalTransition reports whether err wraps an IllegalTransitionError.
func IsIllegalTransition(err error) (*IllegalTransitionError, bool) {
	var it *IllegalTransitionError
	if errors.As(err, &it) {
		return it, true
	}
	return nil, false
}
