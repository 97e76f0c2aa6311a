package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/middleware"
)

// CacheController exposes the state of the caller's entity stores
type CacheController struct {
	sessions Sessions
}

// NewCacheController creates a new CacheController
func NewCacheController(sessions Sessions) *CacheController {
	return &CacheController{sessions: sessions}
}

// Refresh re-fetches every collection of the caller's session
// @Summary Refresh the cache
// @Description Re-fetches all collections of the caller's session concurrently. Collections that failed keep their previous items.
// @Tags cache
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.RefreshResponse}
// @Failure 503 {object} dto.ErrorResponse "Backend unavailable"
// @Router /refresh [post]
func (c *CacheController) Refresh(ctx *gin.Context) {
	stores := sessionStores(ctx, c.sessions)
	if err := stores.RefreshAll(ctx.Request.Context()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.RefreshResponse{
		Collections: stores.States(),
	}, "Cache refreshed"))
}

// States describes every collection of the caller's session
// @Summary Cache state
// @Tags cache
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]dto.CollectionState}
// @Router /cache [get]
func (c *CacheController) States(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(sessionStores(ctx, c.sessions).States(), ""))
}

// Health reports liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=dto.HealthResponse}
// @Router /health [get]
func (c *CacheController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.HealthResponse{
		Status:   "ok",
		Sessions: c.sessions.Len(),
	}, ""))
}
