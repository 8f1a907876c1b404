package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gpai/backend/internal/app/models/dto"
)

// BindJSON binds the request body into obj. On failure it writes a 400 with
// the validator's field errors and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
