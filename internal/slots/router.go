package slots

import (
	"venuepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSlotRoutes(rg *gin.RouterGroup, controller *Controller) {
	exhibitions := rg.Group("/exhibitions")
	{
		exhibitions.GET("/:id/availability", controller.GetAvailableDates) // GET /api/v1/exhibitions/:id/availability?start=...&end=...
		exhibitions.GET("/:id/slots", controller.GetTimeSlots)            // GET /api/v1/exhibitions/:id/slots?date=...
	}

	adminSlots := rg.Group("/admin/slots")
	adminSlots.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminSlots.POST("", controller.CreateTimeSlot) // POST /api/v1/admin/slots
	}
}
