package bookings

import (
	"aerobook/internal/shared/middleware"
	"aerobook/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Seat booking lives under the flight resource
	flightGroup := rg.Group("/flights")
	flightGroup.Use(middleware.JWTAuth(), middleware.RequireRoles(string(users.RoleUser), string(users.RoleAdmin)))
	{
		flightGroup.POST("/:id/book", controller.BookSeats) // POST /api/v1/flights/:id/book
	}

	bookingGroup := rg.Group("/bookings")
	bookingGroup.Use(middleware.JWTAuth())
	{
		userOps := bookingGroup.Group("")
		userOps.Use(middleware.RequireRoles(string(users.RoleUser), string(users.RoleAdmin)))
		{
			userOps.GET("/:id", controller.GetBooking)            // GET /api/v1/bookings/:id
			userOps.POST("/:id/cancel", controller.CancelBooking) // POST /api/v1/bookings/:id/cancel
		}

		adminOps := bookingGroup.Group("")
		adminOps.Use(middleware.RequireRoles(string(users.RoleAdmin)))
		{
			adminOps.POST("/:id/confirm", controller.ConfirmBooking)   // POST /api/v1/bookings/:id/confirm
			adminOps.POST("/:id/complete", controller.CompleteBooking) // POST /api/v1/bookings/:id/complete
		}

		// Payment-status handshake called by the payment collaborator
		paymentOps := bookingGroup.Group("")
		paymentOps.Use(middleware.RequireRoles(string(users.RolePayment), string(users.RoleAdmin)))
		{
			paymentOps.POST("/:id/payment", controller.MarkPaid) // POST /api/v1/bookings/:id/payment
		}
	}

	userGroup := rg.Group("/users")
	userGroup.Use(middleware.JWTAuth(), middleware.RequireRoles(string(users.RoleUser), string(users.RoleAdmin)))
	{
		userGroup.GET("/bookings", controller.GetUserBookings) // GET /api/v1/users/bookings
	}
}
