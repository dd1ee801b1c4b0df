package pricing

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

// GetSlotPricing resolves prices for one (exhibition, date, slot).
// GET /api/v1/exhibitions/:id/pricing?date=YYYY-MM-DD&slot_id=...
func (c *Controller) GetSlotPricing(ctx *gin.Context) {
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

	slotID, err := uuid.Parse(ctx.Query("slot_id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid or missing slot_id", nil, err.Error())
		return
	}

	prices, err := c.service.ResolveSlotPricing(ctx.Request.Context(), exhibitionID, date, slotID)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Pricing retrieved successfully", prices, nil)
}

func (c *Controller) CreateTier(ctx *gin.Context) {
	var req CreateTierRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	tier, err := c.service.CreateTier(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Pricing tier created successfully", tier, nil)
}

func (c *Controller) SetDynamicPrice(ctx *gin.Context) {
	var req SetDynamicPriceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	price, err := c.service.SetDynamicPrice(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Dynamic price saved successfully", price, nil)
}
