package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/client"
)

// HeaderRequestID carries the correlation id in both directions
const HeaderRequestID = "X-Request-ID"

// ContextRequestID is the gin key holding the correlation id
const ContextRequestID = "requestID"

// RequestID reuses the caller's X-Request-ID or assigns a new one, echoes it
// in the response and attaches it to the request context for backend calls.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}

		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(client.WithRequestID(c.Request.Context(), id))

		c.Next()
	}
}

// RequestLogger logs one line per request
func RequestLogger(lgr zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := lgr.Info()
		switch {
		case status >= 500:
			event = lgr.Error()
		case status >= 400:
			event = lgr.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("clientIP", c.ClientIP()).
			Str("requestID", c.GetString(ContextRequestID)).
			Msg("Request handled")
	}
}
