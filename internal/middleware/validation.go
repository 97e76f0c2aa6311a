package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/campusdesk/internal/app/models/dto"
)

// BindJSON decodes the request body into obj and, when v is not nil,
// validates it. On failure it writes a 400 and returns false.
func BindJSON(c *gin.Context, obj interface{}, v *validator.Validate) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid request format")
		errorDetail = errorDetail.WithDetails(err.Error())
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return false
	}

	if v == nil {
		return true
	}
	if err := v.Struct(obj); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
