package seatmap

import (
	"net/http"
	"time"

	"venuepass/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetSeatAvailability handles GET /exhibitions/:id/seats?date=YYYY-MM-DD&slot_id=...
func (c *Controller) GetSeatAvailability(ctx *gin.Context) {
	exhibitionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid exhibition ID", nil, err.Error())
		return
	}

	visitDate, err := time.Parse("2006-01-02", ctx.Query("date"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid or missing date, expected YYYY-MM-DD", nil, err.Error())
		return
	}

	slotID, err := uuid.Parse(ctx.Query("slot_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid or missing slot_id", nil, err.Error())
		return
	}

	seatMap, err := c.service.GetSeatAvailability(ctx.Request.Context(), exhibitionID, visitDate, slotID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat availability retrieved successfully", seatMap, nil)
}
