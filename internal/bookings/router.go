package bookings

import (
	"venuepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.SessionID())
	{
		bookings.POST("", controller.ConfirmBooking)       // POST /api/v1/bookings
		bookings.GET("", controller.GetSessionBookings)    // GET /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)        // GET /api/v1/bookings/:id
		bookings.DELETE("/:id", controller.CancelBooking)  // DELETE /api/v1/bookings/:id
	}
}
