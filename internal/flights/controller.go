package flights

import (
	"net/http"

	"aerobook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListFlights handles GET /api/v1/flights
func (c *Controller) ListFlights(ctx *gin.Context) {
	var req ListFlightsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	list, err := c.service.ListFlights(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Flights retrieved", list, nil)
}

// GetFlight handles GET /api/v1/flights/:id
func (c *Controller) GetFlight(ctx *gin.Context) {
	flight, err := c.service.GetFlight(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Flight retrieved", flight, nil)
}

// GetSeatMap handles GET /api/v1/flights/:id/seats
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	var req SeatMapRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	seatMap, err := c.service.GetSeatMap(ctx.Request.Context(), ctx.Param("id"), req.Class)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat map retrieved", seatMap, nil)
}

// CreateFlight handles POST /api/v1/flights (admin inventory loading)
func (c *Controller) CreateFlight(ctx *gin.Context) {
	var req CreateFlightRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	flight, err := c.service.CreateFlight(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Flight created", flight, nil)
}

// DeleteFlight handles DELETE /api/v1/flights/:id (admin)
func (c *Controller) DeleteFlight(ctx *gin.Context) {
	if err := c.service.DeleteFlight(ctx.Request.Context(), ctx.Param("id")); err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Flight deleted", nil, nil)
}
