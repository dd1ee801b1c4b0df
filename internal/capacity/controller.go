package capacity

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

func (c *Controller) CheckCapacity(ctx *gin.Context) {
	var req CheckCapacityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	slotID, date, ok := parseSlotAndDate(ctx, req.TimeSlotID, req.VisitDate)
	if !ok {
		return
	}

	check, err := c.service.CheckSlotCapacity(ctx.Request.Context(), slotID, date, req.RequiredCount)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Capacity checked successfully", check, nil)
}

func (c *Controller) CommitCapacity(ctx *gin.Context) {
	var req CommitCapacityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	slotID, date, ok := parseSlotAndDate(ctx, req.TimeSlotID, req.VisitDate)
	if !ok {
		return
	}

	if err := c.service.Commit(ctx.Request.Context(), slotID, date, req.TicketCount); err != nil {
		response.RespondError(ctx, err)
		return
	}

	resp := CommitCapacityResponse{
		TimeSlotID: req.TimeSlotID,
		VisitDate:  req.VisitDate,
		Committed:  req.TicketCount,
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Capacity committed successfully", resp, nil)
}

func parseSlotAndDate(ctx *gin.Context, rawSlotID, rawDate string) (uuid.UUID, time.Time, bool) {
	slotID, err := uuid.Parse(rawSlotID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid time slot ID", nil, err.Error())
		return uuid.Nil, time.Time{}, false
	}

	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid visit date, expected YYYY-MM-DD", nil, err.Error())
		return uuid.Nil, time.Time{}, false
	}

	return slotID, date, true
}
