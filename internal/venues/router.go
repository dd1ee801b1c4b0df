package venues

import (
	"venuepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupVenueRoutes(rg *gin.RouterGroup, controller *Controller) {
	venues := rg.Group("/venues")
	{
		venues.GET("", controller.ListVenues)    // GET /api/v1/venues
		venues.GET("/:id", controller.GetVenue)  // GET /api/v1/venues/:id
	}

	adminVenues := rg.Group("/admin/venues")
	adminVenues.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminVenues.POST("", controller.CreateVenue) // POST /api/v1/admin/venues
	}
}
