package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/middleware"
)

// UserController handles account operations beyond plain CRUD
type UserController struct {
	sessions Sessions
	validate *validator.Validate
}

// NewUserController creates a new user controller
func NewUserController(sessions Sessions, validate *validator.Validate) *UserController {
	return &UserController{
		sessions: sessions,
		validate: validate,
	}
}

// SetActive enables or disables an account
// @Summary Activate or deactivate a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.ActiveRequest true "New state"
// @Success 200 {object} dto.StructuredResponse{data=models.User} "User updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/active [patch]
func (c *UserController) SetActive(ctx *gin.Context) {
	var req dto.ActiveRequest
	if !middleware.BindJSON(ctx, &req, c.validate) {
		return
	}
	respond(ctx, http.StatusOK, sessionStores(ctx, c.sessions).Users.SetActive(ctx.Request.Context(), ctx.Param("id"), *req.IsActive))
}
