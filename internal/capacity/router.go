package capacity

import (
	"venuepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCapacityRoutes(rg *gin.RouterGroup, controller *Controller) {
	cap := rg.Group("/capacity")
	{
		cap.POST("/check", controller.CheckCapacity) // POST /api/v1/capacity/check
	}

	adminCap := rg.Group("/admin/capacity")
	adminCap.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminCap.POST("/commit", controller.CommitCapacity) // POST /api/v1/admin/capacity/commit
	}
}
