package websocket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/middleware"
)

// Handler for WebSocket connections
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to cache changes
// @Description Upgrades to a WebSocket that receives a collection.changed event every time a collection in the caller's own cache changes. Send {"subscribe":["courses"]} or pass ?collections=courses,modules to narrow the feed.
// @Tags cache, websocket
// @Security BearerAuth
// @Param collections query string false "Comma separated collection names"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	userID := middleware.SessionOwner(c)
	if userID == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var topics []string
	if raw := c.Query("collections"); raw != "" {
		topics = strings.Split(raw, ",")
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := newClient(h.hub, conn, userID, topics, h.logger)
	if !h.hub.join(client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
