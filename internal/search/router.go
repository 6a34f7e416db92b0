package search

import (
	"github.com/gin-gonic/gin"
)

// SetupSearchRoutes configures the search aggregation routes. Search is
// public: no auth is required to browse fares.
func SetupSearchRoutes(rg *gin.RouterGroup, controller *Controller) {
	flightGroup := rg.Group("/flights")
	{
		flightGroup.GET("/search", controller.SearchFlights) // GET /api/v1/flights/search?from=accra&to=london&...
	}
}
