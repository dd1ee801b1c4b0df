package response

import (
	"venuepass/internal/shared/utils/apperrors"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError renders an error through the shared envelope so every
// subsystem surfaces the same shape: kind, message, details, timestamp.
func RespondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	RespondJSON(c, "error", appErr.HTTPStatus(), appErr.Message, nil, appErr)
}
