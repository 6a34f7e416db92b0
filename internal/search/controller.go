package search

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aerobook/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// SearchFlights handles GET /flights/search
func (c *Controller) SearchFlights(ctx *gin.Context) {
	var req SearchRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid search parameters", nil, err.Error())
		return
	}

	result, err := c.service.Search(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	message := "Flights retrieved successfully"
	if result.IsSampleData {
		message = result.Message
	}
	response.RespondJSON(ctx, "success", http.StatusOK, message, result, nil)
}
