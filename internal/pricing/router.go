package pricing

import (
	"venuepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupPricingRoutes(rg *gin.RouterGroup, controller *Controller) {
	exhibitions := rg.Group("/exhibitions")
	{
		exhibitions.GET("/:id/pricing", controller.GetSlotPricing) // GET /api/v1/exhibitions/:id/pricing?date=...&slot_id=...
	}

	adminPricing := rg.Group("/admin/pricing")
	adminPricing.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminPricing.POST("/tiers", controller.CreateTier)       // POST /api/v1/admin/pricing/tiers
		adminPricing.PUT("/dynamic", controller.SetDynamicPrice) // PUT /api/v1/admin/pricing/dynamic
	}
}
