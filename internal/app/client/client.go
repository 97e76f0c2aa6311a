package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

const maxResponseBytes = 10 << 20

// Config holds the backend connection settings
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	ServiceToken string
	// HTTPClient overrides the transport (tests); Timeout still applies when set.
	HTTPClient *http.Client
}

// Client talks to the school REST backend. Every call is bound to the
// caller's context: cancelling it aborts the request.
type Client struct {
	baseURL      *url.URL
	http         *http.Client
	serviceToken string
	logger       zerolog.Logger
}

// rawEnvelope is the {success, message, data} wrapper before data is typed
type rawEnvelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type response struct {
	status  int
	cookies []*http.Cookie
	success bool
	message string
	data    json.RawMessage
}

// New creates a backend client
func New(cfg Config, lgr zerolog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("backend base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend base URL must be absolute: %q", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	return &Client{
		baseURL:      base,
		http:         httpClient,
		serviceToken: cfg.ServiceToken,
		logger:       lgr.With().Str("component", "backend-client").Logger(),
	}, nil
}

// Close releases idle connections
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) endpoint(segments ...string) string {
	u := *c.baseURL
	plain := make([]string, 0, len(segments))
	escaped := make([]string, 0, len(segments))
	for _, s := range segments {
		if s == "" {
			continue
		}
		plain = append(plain, s)
		escaped = append(escaped, url.PathEscape(s))
	}
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + "/" + strings.Join(plain, "/")
	u.RawPath = strings.TrimRight(c.baseURL.EscapedPath(), "/") + "/" + strings.Join(escaped, "/")
	return u.String()
}

// exchange performs one request and parses the envelope. A success=false
// envelope or a non-2xx status comes back as *apperrors.RemoteError; the
// parsed response is returned alongside so callers can still read cookies.
func (c *Client) exchange(ctx context.Context, method, target string, body any) (*response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := RequestIDFrom(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
	token := TokenFrom(ctx)
	if token == "" {
		token = c.serviceToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrRequestCancelled, ctxErr)
		}
		c.logger.Warn().Err(err).Str("method", method).Str("url", target).Msg("Backend request failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrRequestCancelled, ctx.Err())
		}
		return nil, fmt.Errorf("%w: reading body: %v", apperrors.ErrNetwork, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Backend request completed")

	out := &response{status: resp.StatusCode, cookies: resp.Cookies()}
	ok2xx := resp.StatusCode >= 200 && resp.StatusCode < 300

	if len(bytes.TrimSpace(raw)) == 0 {
		if !ok2xx {
			return out, apperrors.NewRemoteError(resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		out.success = true
		return out, nil
	}

	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if !ok2xx {
			return out, apperrors.NewRemoteError(resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return out, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}

	out.success = ok2xx
	if env.Success != nil {
		out.success = *env.Success && ok2xx
	}
	out.message = env.Message
	out.data = env.Data

	if !out.success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return out, apperrors.NewRemoteError(resp.StatusCode, msg)
	}
	return out, nil
}

// decodeData unmarshals the envelope payload into a new T; nil when absent.
func decodeData[T any](data json.RawMessage) (*T, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}
	return &v, nil
}
