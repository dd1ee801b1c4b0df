package locks

import (
	"net/http"
	"time"

	"venuepass/internal/shared/middleware"
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

func (c *Controller) CreateLock(ctx *gin.Context) {
	var req CreateLockRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	exhibitionID, err := uuid.Parse(req.ExhibitionID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid exhibition ID", nil, err.Error())
		return
	}
	slotID, err := uuid.Parse(req.TimeSlotID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid time slot ID", nil, err.Error())
		return
	}
	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid visit date, expected YYYY-MM-DD", nil, err.Error())
		return
	}

	sessionID := middleware.GetSessionID(ctx)

	lock, err := c.service.CreateSeatLock(ctx.Request.Context(), sessionID, exhibitionID, visitDate, slotID, req.Seats, req.Quantity)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Seat lock created successfully", toLockResponse(lock), nil)
}

func (c *Controller) VerifyLock(ctx *gin.Context) {
	lockID := ctx.Param("id")
	if lockID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Lock ID is required", nil, "missing lock ID")
		return
	}

	lock, err := c.service.VerifySeatLock(ctx.Request.Context(), lockID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	resp := VerifyLockResponse{Valid: lock != nil}
	if lock != nil {
		resp.Lock = toLockResponse(lock)
	}
	response.RespondJSON(ctx, "success", http.StatusOK, "Lock verified", resp, nil)
}

func (c *Controller) ReleaseLock(ctx *gin.Context) {
	lockID := ctx.Param("id")
	if lockID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Lock ID is required", nil, "missing lock ID")
		return
	}

	c.service.ReleaseSeatLock(ctx.Request.Context(), lockID)

	response.RespondJSON(ctx, "success", http.StatusOK, "Lock released", nil, nil)
}
