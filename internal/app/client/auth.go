package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/yigit/campusdesk/internal/app/models/dto"
)

// Auth actions exposed by the backend under /auth
const (
	AuthLogin          = "login"
	AuthRegister       = "register"
	AuthIsAuth         = "is-auth"
	AuthGoogleValidate = "google-validate"
	AuthLogout         = "logout"
)

// AuthReply is an opaque auth response relayed to the dashboard together with
// the session cookies the backend set.
type AuthReply struct {
	Status   int
	Envelope dto.Envelope[json.RawMessage]
	Cookies  []*http.Cookie
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, credentials any) (AuthReply, error) {
	return c.auth(ctx, AuthLogin, credentials)
}

// Register creates an account through the backend
func (c *Client) Register(ctx context.Context, payload any) (AuthReply, error) {
	return c.auth(ctx, AuthRegister, payload)
}

// IsAuth asks the backend whether the session in ctx is still valid
func (c *Client) IsAuth(ctx context.Context) (AuthReply, error) {
	return c.auth(ctx, AuthIsAuth, nil)
}

// GoogleValidate forwards a Google credential for validation
func (c *Client) GoogleValidate(ctx context.Context, payload any) (AuthReply, error) {
	return c.auth(ctx, AuthGoogleValidate, payload)
}

// Logout ends the session in ctx
func (c *Client) Logout(ctx context.Context) (AuthReply, error) {
	return c.auth(ctx, AuthLogout, nil)
}

// auth posts to /auth/<action>. Backend refusals still yield a reply so the
// caller can relay status and message.
func (c *Client) auth(ctx context.Context, action string, body any) (AuthReply, error) {
	resp, err := c.exchange(ctx, http.MethodPost, c.endpoint("auth", action), body)
	if resp == nil {
		return AuthReply{}, err
	}

	reply := AuthReply{
		Status:  resp.status,
		Cookies: resp.cookies,
		Envelope: dto.Envelope[json.RawMessage]{
			Success: resp.success,
			Message: resp.message,
		},
	}
	data, decodeErr := decodeData[json.RawMessage](resp.data)
	if decodeErr != nil && err == nil {
		err = decodeErr
	}
	reply.Envelope.Data = data
	return reply, err
}
