package locks

import (
	"venuepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupLockRoutes(rg *gin.RouterGroup, controller *Controller) {
	locks := rg.Group("/locks")
	locks.Use(middleware.SessionID())
	{
		locks.POST("", controller.CreateLock)          // POST /api/v1/locks
		locks.GET("/:id", controller.VerifyLock)       // GET /api/v1/locks/:id
		locks.DELETE("/:id", controller.ReleaseLock)   // DELETE /api/v1/locks/:id
	}
}
