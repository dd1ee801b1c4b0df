package slots

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

// GetAvailableDates returns the per-date availability aggregate.
// GET /api/v1/exhibitions/:id/availability?start=YYYY-MM-DD&end=YYYY-MM-DD
func (c *Controller) GetAvailableDates(ctx *gin.Context) {
	exhibitionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid exhibition ID", nil, err.Error())
		return
	}

	var start, end *time.Time
	if raw := ctx.Query("start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid start date, expected YYYY-MM-DD", nil, err.Error())
			return
		}
		start = &parsed
	}
	if raw := ctx.Query("end"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD", nil, err.Error())
			return
		}
		end = &parsed
	}

	dates, err := c.service.GetAvailableDates(ctx.Request.Context(), exhibitionID, start, end)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Availability retrieved successfully", dates, nil)
}

// GetTimeSlots returns slot-level detail for one date.
// GET /api/v1/exhibitions/:id/slots?date=YYYY-MM-DD
func (c *Controller) GetTimeSlots(ctx *gin.Context) {
	exhibitionID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid exhibition ID", nil, err.Error())
		return
	}

	date, err := time.Parse("2006-01-02", ctx.Query("date"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid or missing date, expected YYYY-MM-DD", nil, err.Error())
		return
	}

	timeSlots, err := c.service.GetTimeSlots(ctx.Request.Context(), exhibitionID, date)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Time slots retrieved successfully", timeSlots, nil)
}

func (c *Controller) CreateTimeSlot(ctx *gin.Context) {
	var req CreateTimeSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	slot, err := c.service.CreateTimeSlot(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Time slot created successfully", slot, nil)
}
