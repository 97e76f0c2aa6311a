// Package controllers handles HTTP request handling
package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/client"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/middleware"
)

// AuthBackend is the part of the backend client that handles sessions
type AuthBackend interface {
	Login(ctx context.Context, credentials any) (client.AuthReply, error)
	Register(ctx context.Context, payload any) (client.AuthReply, error)
	IsAuth(ctx context.Context) (client.AuthReply, error)
	GoogleValidate(ctx context.Context, payload any) (client.AuthReply, error)
	Logout(ctx context.Context) (client.AuthReply, error)
}

// AuthController relays authentication calls to the backend unchanged
type AuthController struct {
	backend AuthBackend
	logger  zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(backend AuthBackend, logger zerolog.Logger) *AuthController {
	return &AuthController{
		backend: backend,
		logger:  logger,
	}
}

// Login handles user login
// @Summary User login
// @Description Relays credentials to the backend and forwards the session cookie it sets
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.StructuredResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.StructuredResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	body, ok := c.readBody(ctx)
	if !ok {
		return
	}
	reply, err := c.backend.Login(ctx.Request.Context(), body)
	c.relay(ctx, "login", reply, err)
}

// Register handles user registration
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.User true "Account"
// @Success 200 {object} dto.StructuredResponse "Registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.StructuredResponse "Email already exists"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	body, ok := c.readBody(ctx)
	if !ok {
		return
	}
	reply, err := c.backend.Register(ctx.Request.Context(), body)
	c.relay(ctx, "register", reply, err)
}

// IsAuth reports whether the caller's session is still valid
// @Summary Check session
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse "Session valid"
// @Failure 401 {object} dto.StructuredResponse "Session invalid"
// @Router /auth/is-auth [post]
func (c *AuthController) IsAuth(ctx *gin.Context) {
	reply, err := c.backend.IsAuth(c.sessionContext(ctx))
	c.relay(ctx, "is-auth", reply, err)
}

// GoogleValidate relays a Google credential
// @Summary Validate a Google sign-in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleValidateRequest true "Google credential"
// @Success 200 {object} dto.StructuredResponse "Signed in"
// @Failure 401 {object} dto.StructuredResponse "Credential rejected"
// @Router /auth/google-validate [post]
func (c *AuthController) GoogleValidate(ctx *gin.Context) {
	body, ok := c.readBody(ctx)
	if !ok {
		return
	}
	reply, err := c.backend.GoogleValidate(ctx.Request.Context(), body)
	c.relay(ctx, "google-validate", reply, err)
}

// Logout ends the caller's session
// @Summary Logout
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	reply, err := c.backend.Logout(c.sessionContext(ctx))
	c.relay(ctx, "logout", reply, err)
}

// readBody takes the request body as-is; it only has to be JSON
func (c *AuthController) readBody(ctx *gin.Context) (json.RawMessage, bool) {
	raw, err := ctx.GetRawData()
	if err != nil || !json.Valid(raw) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid request format")
		errorDetail = errorDetail.WithDetails("Request body must be a JSON document")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return nil, false
	}
	return json.RawMessage(raw), true
}

// sessionContext carries the caller's token to the backend
func (c *AuthController) sessionContext(ctx *gin.Context) context.Context {
	return client.WithToken(ctx.Request.Context(), middleware.SessionToken(ctx))
}

// relay answers with the backend's status, envelope and cookies. Transport
// failures, where the backend never answered, go through the error mapping.
func (c *AuthController) relay(ctx *gin.Context, action string, reply client.AuthReply, err error) {
	if reply.Status == 0 {
		c.logger.Warn().Err(err).Str("action", action).Msg("Auth request failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	for _, cookie := range reply.Cookies {
		cookie.Domain = ""
		http.SetCookie(ctx.Writer, cookie)
	}

	if err != nil {
		c.logger.Debug().Err(err).Str("action", action).Int("status", reply.Status).Msg("Auth request refused")
	}
	ctx.JSON(reply.Status, reply.Envelope)
}
