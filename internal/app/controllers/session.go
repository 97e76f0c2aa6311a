package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/campusdesk/internal/app/store"
	"github.com/yigit/campusdesk/internal/middleware"
)

// Sessions resolves the entity stores of a signed-in identity
type Sessions interface {
	Acquire(owner, token string) *store.Stores
	Len() int
}

// sessionStores returns the caller's own stores. Requests reach handlers
// only through JWTAuth, which puts the identity and token on the context.
func sessionStores(ctx *gin.Context, sessions Sessions) *store.Stores {
	return sessions.Acquire(middleware.SessionOwner(ctx), ctx.GetString(middleware.ContextToken))
}
