package response

import (
	"errors"
	"net/http"

	"aerobook/internal/shared/apperrors"

	"github.com/gin-gonic/gin"
)

// RespondError maps a service error onto the standard JSON envelope with the
// HTTP status the error taxonomy prescribes. Storage details never leak: the
// client sees the sentinel/typed message only.
func RespondError(c *gin.Context, err error) {
	status, payload := classify(err)
	RespondJSON(c, "error", status, payload.message, nil, payload.details)
}

type errorPayload struct {
	message string
	details interface{}
}

func classify(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, apperrors.ErrFlightNotFound),
		errors.Is(err, apperrors.ErrBookingNotFound):
		return http.StatusNotFound, errorPayload{message: err.Error()}

	case errors.Is(err, apperrors.ErrInvalidRequest):
		return http.StatusBadRequest, errorPayload{message: err.Error()}

	case errors.Is(err, apperrors.ErrAlreadyDeparted):
		return http.StatusBadRequest, errorPayload{message: "cannot book a flight that has already departed"}

	case errors.Is(err, apperrors.ErrVersionConflict):
		return http.StatusConflict, errorPayload{
			message: "booking conflicted with a concurrent request, please retry",
			details: map[string]interface{}{"retryable": true},
		}

	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusForbidden, errorPayload{message: err.Error()}

	case errors.Is(err, apperrors.ErrPersistenceFailed):
		return http.StatusInternalServerError, errorPayload{message: "booking could not be recorded, seats were released"}
	}

	if su, ok := apperrors.IsSeatUnavailable(err); ok {
		return http.StatusConflict, errorPayload{
			message: su.Error(),
			details: map[string]interface{}{"seat_id": su.SeatID, "seat_number": su.SeatNumber, "retryable": false},
		}
	}
	if us, ok := apperrors.IsUnknownSeat(err); ok {
		return http.StatusNotFound, errorPayload{
			message: us.Error(),
			details: map[string]interface{}{"seat_id": us.SeatID},
		}
	}
	if it, ok := apperrors.IsIllegalTransition(err); ok {
		return http.StatusConflict, errorPayload{
			message: it.Error(),
			details: map[string]interface{}{"from": it.From, "to": it.To},
		}
	}

	return http.StatusInternalServerError, errorPayload{message: "internal server error"}
}
