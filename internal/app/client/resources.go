package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

// Meta describes a backend reply apart from its payload
type Meta struct {
	Status  int
	Success bool
	Message string
	HasData bool
}

// List fetches every record of resource into out
func (c *Client) List(ctx context.Context, resource string, out any) (Meta, error) {
	return c.call(ctx, http.MethodGet, c.endpoint("api", resource), nil, out)
}

// Get fetches one record
func (c *Client) Get(ctx context.Context, resource, id string, out any) (Meta, error) {
	if id == "" {
		return Meta{}, apperrors.NewBadRequestError("id is required")
	}
	return c.call(ctx, http.MethodGet, c.endpoint("api", resource, id), nil, out)
}

// Create posts a new record; out receives the created record when the backend returns it
func (c *Client) Create(ctx context.Context, resource string, body, out any) (Meta, error) {
	return c.call(ctx, http.MethodPost, c.endpoint("api", resource), body, out)
}

// Update replaces a record
func (c *Client) Update(ctx context.Context, resource, id string, body, out any) (Meta, error) {
	if id == "" {
		return Meta{}, apperrors.NewBadRequestError("id is required")
	}
	return c.call(ctx, http.MethodPut, c.endpoint("api", resource, id), body, out)
}

// Patch sends a partial update
func (c *Client) Patch(ctx context.Context, resource, id string, body, out any) (Meta, error) {
	if id == "" {
		return Meta{}, apperrors.NewBadRequestError("id is required")
	}
	return c.call(ctx, http.MethodPatch, c.endpoint("api", resource, id), body, out)
}

// Delete removes a record
func (c *Client) Delete(ctx context.Context, resource, id string, out any) (Meta, error) {
	if id == "" {
		return Meta{}, apperrors.NewBadRequestError("id is required")
	}
	return c.call(ctx, http.MethodDelete, c.endpoint("api", resource, id), nil, out)
}

func (c *Client) call(ctx context.Context, method, target string, body, out any) (Meta, error) {
	resp, err := c.exchange(ctx, method, target, body)
	if resp == nil {
		return Meta{}, err
	}
	meta := Meta{
		Status:  resp.status,
		Success: resp.success,
		Message: resp.message,
		HasData: hasPayload(resp.data),
	}
	if err != nil {
		return meta, err
	}
	if meta.HasData && out != nil {
		if err := json.Unmarshal(resp.data, out); err != nil {
			meta.HasData = false
			return meta, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
		}
	}
	return meta, nil
}

func hasPayload(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
