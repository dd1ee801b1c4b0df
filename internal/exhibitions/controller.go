package exhibitions

import (
	"net/http"

	"venuepass/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateExhibition(ctx *gin.Context) {
	var req CreateExhibitionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	exhibition, err := c.service.CreateExhibition(ctx.Request.Context(), req)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Exhibition created successfully", exhibition, nil)
}

func (c *Controller) GetExhibition(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Exhibition ID is required", nil, "missing exhibition ID")
		return
	}

	exhibition, err := c.service.GetExhibition(ctx.Request.Context(), id)
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Exhibition retrieved successfully", exhibition, nil)
}

func (c *Controller) ListExhibitions(ctx *gin.Context) {
	exhibitions, err := c.service.ListExhibitions(ctx.Request.Context())
	if err != nil {
		response.RespondError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Exhibitions retrieved successfully", exhibitions, nil)
}
