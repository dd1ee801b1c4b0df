package seatmap

import "github.com/gin-gonic/gin"

func SetupSeatMapRoutes(rg *gin.RouterGroup, controller *Controller) {
	exhibitions := rg.Group("/exhibitions")
	{
		exhibitions.GET("/:id/seats", controller.GetSeatAvailability) // GET /api/v1/exhibitions/:id/seats
	}
}
