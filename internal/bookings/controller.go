package bookings

import (
	"net/http"

	"aerobook/internal/shared/middleware"
	"aerobook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// BookSeats handles POST /api/v1/flights/:id/book
func (c *Controller) BookSeats(ctx *gin.Context) {
	userID, ok := actorID(ctx)
	if !ok {
		return
	}

	var req BookSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.BookSeats(ctx.Request.Context(), userID, ctx.Param("id"), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Flight booked successfully", booking, nil)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := actorID(ctx)
	if !ok {
		return
	}
	role, _ := middleware.UserRole(ctx)

	booking, err := c.service.GetBooking(ctx.Request.Context(), ctx.Param("id"), userID, role)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved", booking, nil)
}

// GetUserBookings handles GET /api/v1/users/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, ok := actorID(ctx)
	if !ok {
		return
	}

	var req BookingListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	list, err := c.service.GetUserBookings(ctx.Request.Context(), userID, req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved", list, nil)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	userID, ok := actorID(ctx)
	if !ok {
		return
	}
	role, _ := middleware.UserRole(ctx)

	var req CancelBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && ctx.Request.ContentLength > 0 {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.CancelBooking(ctx.Request.Context(), ctx.Param("id"), userID, role, req.Reason)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking cancelled", booking, nil)
}

// ConfirmBooking handles POST /api/v1/bookings/:id/confirm (admin)
func (c *Controller) ConfirmBooking(ctx *gin.Context) {
	userID, ok := actorID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.ConfirmBooking(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking confirmed", booking, nil)
}

// CompleteBooking handles POST /api/v1/bookings/:id/complete (admin)
func (c *Controller) CompleteBooking(ctx *gin.Context) {
	userID, ok := actorID(ctx)
	if !ok {
		return
	}

	booking, err := c.service.CompleteBooking(ctx.Request.Context(), ctx.Param("id"), userID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking completed", booking, nil)
}

// MarkPaid handles POST /api/v1/bookings/:id/payment (payment collaborator)
func (c *Controller) MarkPaid(ctx *gin.Context) {
	var req MarkPaidRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := c.service.MarkPaid(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment recorded", booking, nil)
}

// actorID extracts and parses the injected user identity, responding with an
// error when it is missing or malformed.
func actorID(ctx *gin.Context) (uuid.UUID, bool) {
	idStr, exists := middleware.UserID(ctx)
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user ID", nil, nil)
		return uuid.Nil, false
	}
	return id, true
}
