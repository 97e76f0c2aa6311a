package client

import "context"

type contextKey string

const (
	tokenKey     contextKey = "session_token"
	requestIDKey contextKey = "request_id"
)

// WithToken attaches the caller's session token; requests made with the
// returned context are authenticated as that caller.
func WithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFrom returns the session token in ctx, if any
func TokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithRequestID attaches a correlation id forwarded as X-Request-ID
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the correlation id in ctx, if any
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
