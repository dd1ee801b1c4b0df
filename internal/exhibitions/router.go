package exhibitions

import (
	"venuepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupExhibitionRoutes(rg *gin.RouterGroup, controller *Controller) {
	exhibitions := rg.Group("/exhibitions")
	{
		exhibitions.GET("", controller.ListExhibitions)   // GET /api/v1/exhibitions
		exhibitions.GET("/:id", controller.GetExhibition) // GET /api/v1/exhibitions/:id
	}

	adminExhibitions := rg.Group("/admin/exhibitions")
	adminExhibitions.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminExhibitions.POST("", controller.CreateExhibition) // POST /api/v1/admin/exhibitions
	}
}
