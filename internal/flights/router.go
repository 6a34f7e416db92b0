package flights

import (
	"aerobook/internal/shared/middleware"
	"aerobook/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupFlightRoutes configures all flight inventory routes
func SetupFlightRoutes(rg *gin.RouterGroup, controller *Controller) {
	flightGroup := rg.Group("/flights")
	{
		// Public read side
		flightGroup.GET("", controller.ListFlights)          // GET /api/v1/flights
		flightGroup.GET("/:id", controller.GetFlight)        // GET /api/v1/flights/:id
		flightGroup.GET("/:id/seats", controller.GetSeatMap) // GET /api/v1/flights/:id/seats?class=economy

		// Inventory loading (admin only)
		admin := flightGroup.Group("")
		admin.Use(middleware.JWTAuth(), middleware.RequireRoles(string(users.RoleAdmin)))
		{
			admin.POST("", controller.CreateFlight)       // POST /api/v1/flights
			admin.DELETE("/:id", controller.DeleteFlight) // DELETE /api/v1/flights/:id
		}
	}
}
