package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusdesk/internal/pkg/apperrors"
)

type course struct {
	ID         string `json:"_id"`
	CourseName string `json:"courseName"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL, Timeout: 2 * time.Second, ServiceToken: "svc"}, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New(Config{BaseURL: "localhost:5000/api"}, zerolog.Nop())
	assert.Error(t, err)

	_, err = New(Config{}, zerolog.Nop())
	assert.Error(t, err)
}

func TestList_DecodesEnvelopeData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/courses", r.URL.Path)
		assert.Equal(t, "Bearer svc", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"success":true,"data":[{"_id":"c1","courseName":"Computer Science"}]}`)
	})

	var out []course
	meta, err := c.List(context.Background(), "courses", &out)
	require.NoError(t, err)
	assert.True(t, meta.Success)
	assert.True(t, meta.HasData)
	require.Len(t, out, 1)
	assert.Equal(t, "Computer Science", out[0].CourseName)
}

func TestCall_ForwardsSessionTokenAndRequestID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		cookie, err := r.Cookie("token")
		require.NoError(t, err)
		assert.Equal(t, "user-token", cookie.Value)
		assert.Equal(t, "req-42", r.Header.Get("X-Request-ID"))
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	ctx := WithRequestID(WithToken(context.Background(), "user-token"), "req-42")
	meta, err := c.Delete(ctx, "courses", "c1", nil)
	require.NoError(t, err)
	assert.True(t, meta.Success)
	assert.False(t, meta.HasData)
}

func TestCreate_SendsJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Maths", body["courseName"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"message":"Course created","data":{"_id":"c9","courseName":"Maths"}}`)
	})

	var out course
	meta, err := c.Create(context.Background(), "courses", map[string]any{"courseName": "Maths"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "Course created", meta.Message)
	assert.Equal(t, "c9", out.ID)
}

func TestCall_SuccessFalseIsRemoteError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"success":false,"message":"dup"}`)
	})

	meta, err := c.Create(context.Background(), "courses", map[string]any{}, nil)
	require.Error(t, err)

	var remote *apperrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "dup", remote.Message)
	assert.Equal(t, http.StatusConflict, meta.Status)
	assert.False(t, meta.Success)
	assert.True(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, "dup", apperrors.Message(err))
}

func TestCall_SuccessFalseWith200(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"Module code taken"}`)
	})

	_, err := c.Update(context.Background(), "modules", "m1", map[string]any{}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrRemoteFailure))
	assert.Equal(t, "Module code taken", apperrors.Message(err))
}

func TestCall_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	})

	_, err := c.List(context.Background(), "courses", &[]course{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMalformedResponse))
}

func TestCall_DataShapeMismatchIsMalformed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"data":"not-a-list"}`)
	})

	var out []course
	meta, err := c.List(context.Background(), "courses", &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrMalformedResponse))
	assert.False(t, meta.HasData)
}

func TestCall_NonJSONErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := c.Get(context.Background(), "courses", "c1", nil)
	var remote *apperrors.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusBadGateway, remote.StatusCode)
	assert.Equal(t, "Bad Gateway", remote.Message)
}

func TestCall_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c, err := New(Config{BaseURL: srv.URL, Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.List(context.Background(), "courses", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNetwork))
	assert.Equal(t, "Unable to reach the server. Please try again.", apperrors.Message(err))
}

func TestCall_CancelledContext(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.List(ctx, "courses", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrRequestCancelled))
}

func TestCall_EscapesIDs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/courses/a%2Fb", r.URL.RawPath)
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	_, err := c.Get(context.Background(), "courses", "a/b", nil)
	require.NoError(t, err)
}

func TestGet_RequiresID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := c.Get(context.Background(), "courses", "", nil)
	assert.True(t, errors.Is(err, apperrors.ErrBadRequest))
}

func TestLogin_RelaysEnvelopeAndCookies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "session-1", HttpOnly: true})
		_, _ = io.WriteString(w, `{"success":true,"message":"Logged in","data":{"role":"schoolAdmin"}}`)
	})

	reply, err := c.Login(context.Background(), map[string]string{"email": "a@b.co", "password": "secret123"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, reply.Status)
	assert.True(t, reply.Envelope.Success)
	assert.Equal(t, "Logged in", reply.Envelope.Message)
	require.NotNil(t, reply.Envelope.Data)
	assert.JSONEq(t, `{"role":"schoolAdmin"}`, string(*reply.Envelope.Data))
	require.Len(t, reply.Cookies, 1)
	assert.Equal(t, "session-1", reply.Cookies[0].Value)
}

func TestIsAuth_Refused(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/is-auth", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"success":false,"message":"Not authenticated"}`)
	})

	reply, err := c.IsAuth(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
	assert.Equal(t, http.StatusUnauthorized, reply.Status)
	assert.False(t, reply.Envelope.Success)
	assert.Equal(t, "Not authenticated", reply.Envelope.Message)
}
