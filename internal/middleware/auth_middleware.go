package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yigit/campusdesk/internal/app/client"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/pkg/apperrors"
	"github.com/yigit/campusdesk/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextUserID   = "userID"
	ContextEmail    = "email"
	ContextRoleType = "roleType"
	ContextToken    = "token"
)

// confirmedTokens caps the remembered backend confirmations
const confirmedTokens = 4096

// SessionChecker asks the backend whether the session token in ctx is valid
type SessionChecker interface {
	IsAuth(ctx context.Context) (client.AuthReply, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	checker    SessionChecker
	confirmed  *expirable.LRU[string, struct{}]
}

// AuthOption configures an AuthMiddleware
type AuthOption func(*AuthMiddleware)

// WithSessionCheck confirms tokens with the backend whenever signatures
// cannot be verified locally. A confirmation is reused for ttl.
func WithSessionCheck(checker SessionChecker, ttl time.Duration) AuthOption {
	return func(m *AuthMiddleware) {
		m.checker = checker
		m.confirmed = expirable.NewLRU[string, struct{}](confirmedTokens, nil, ttl)
	}
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, opts ...AuthOption) *AuthMiddleware {
	m := &AuthMiddleware{
		jwtService: jwtService,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SessionToken finds the session token in the Authorization header, the
// token query parameter (Swagger UI) or the token cookie.
func SessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	return ""
}

// JWTAuth middleware for JWT token validation. The token is forwarded to the
// backend with every request made on behalf of this caller.
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := SessionToken(c)
		if tokenString == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header or token cookie missing")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"

			if errors.Is(err, apperrors.ErrTokenExpired) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			} else if errors.Is(err, apperrors.ErrInvalidFormat) {
				errorDetails = "Invalid token format"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed")
			errorDetail = errorDetail.WithDetails(errorDetails)
			errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityError)

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		if !m.jwtService.Verifies() {
			if err := m.confirm(c.Request.Context(), tokenString); err != nil {
				if !errors.Is(err, apperrors.ErrTokenInvalid) {
					HandleAPIError(c, err)
					return
				}
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Authentication failed")
				errorDetail = errorDetail.WithDetails("Session not recognised by the backend")
				errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityError)

				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRoleType, claims.Role)
		c.Set(ContextToken, tokenString)
		c.Request = c.Request.WithContext(client.WithToken(c.Request.Context(), tokenString))

		c.Next()
	}
}

// confirm checks an unsigned token against the backend. Without a checker
// unsigned tokens are refused.
func (m *AuthMiddleware) confirm(ctx context.Context, token string) error {
	if m.checker == nil {
		return fmt.Errorf("%w: signature cannot be verified", apperrors.ErrTokenInvalid)
	}

	sum := sha256.Sum256([]byte(token))
	key := hex.EncodeToString(sum[:])
	if _, ok := m.confirmed.Get(key); ok {
		return nil
	}

	reply, err := m.checker.IsAuth(client.WithToken(ctx, token))
	if reply.Status == 0 && err != nil {
		return err
	}
	if !reply.Envelope.Success {
		return apperrors.ErrTokenInvalid
	}
	m.confirmed.Add(key, struct{}{})
	return nil
}

// SessionOwner returns the identity whose cache serves this request
func SessionOwner(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// RoleRequired middleware to check if user has one of the given roles
func (m *AuthMiddleware) RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRoleType)
		if !exists {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("User role not found")

			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		roleStr, _ := role.(string)
		for _, allowed := range roles {
			if roleStr == allowed {
				c.Next()
				return
			}
		}

		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
		errorDetail = errorDetail.WithSeverity(dto.ErrorSeverityError)

		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
	}
}
