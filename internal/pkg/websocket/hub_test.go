package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/middleware"
)

// newRouter serves the feed, taking the session from ?as= the way JWTAuth
// would from the token
func newRouter(hub *Hub) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if owner := c.Query("as"); owner != "" {
			c.Set(middleware.ContextUserID, owner)
		}
	})
	router.GET("/ws", NewHandler(hub, zerolog.Nop()).HandleConnection)
	return router
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	srv := httptest.NewServer(newRouter(hub))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, hub *Hub, url string, want int) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == want }, time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestHubBroadcastsChanges(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url+"?as=u1", 1)

	hub.Publish("u1", dto.CollectionState{Name: "courses", Count: 3, Version: 7})

	event := readEvent(t, conn)
	assert.Equal(t, EventCollectionChanged, event.Type)
	assert.Equal(t, "courses", event.Collection.Name)
	assert.Equal(t, 3, event.Collection.Count)
	assert.Equal(t, uint64(7), event.Collection.Version)
}

func TestHubFiltersBySubscription(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url+"?as=u1&collections=modules", 1)

	hub.Publish("u1", dto.CollectionState{Name: "courses", Count: 1})
	hub.Publish("u1", dto.CollectionState{Name: "modules", Count: 2})

	event := readEvent(t, conn)
	assert.Equal(t, "modules", event.Collection.Name)
	assert.Equal(t, 2, event.Collection.Count)
}

func TestHubDeliversOnlyToOwner(t *testing.T) {
	hub, url := startHub(t)
	admin := dial(t, hub, url+"?as=admin", 1)
	student := dial(t, hub, url+"?as=student", 2)

	hub.Publish("admin", dto.CollectionState{Name: "users", Count: 40})
	hub.Publish("student", dto.CollectionState{Name: "users", Count: 1})

	assert.Equal(t, 40, readEvent(t, admin).Collection.Count)
	assert.Equal(t, 1, readEvent(t, student).Collection.Count, "the admin's change never reaches the student")
}

func TestHandlerRequiresSession(t *testing.T) {
	hub, url := startHub(t)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, hub.ClientCount())
}

func TestClientSubscriptionMessages(t *testing.T) {
	c := &Client{topics: make(map[string]bool)}
	assert.True(t, c.subscribed("billing"), "no topics means everything")

	c.apply(Subscription{Subscribe: []string{" courses ", ""}})
	assert.True(t, c.subscribed("courses"))
	assert.False(t, c.subscribed("billing"))

	c.apply(Subscription{Unsubscribe: []string{"courses"}})
	assert.True(t, c.subscribed("billing"))
}

func TestHubStopDisconnectsClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	srv := httptest.NewServer(newRouter(hub))
	defer srv.Close()

	conn := dial(t, hub, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?as=u1", 1)

	cancel()
	<-stopped

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "connection closed by the hub")
	assert.Zero(t, hub.ClientCount())

	// publishing after stop never blocks
	for i := 0; i < 300; i++ {
		hub.Publish("u1", dto.CollectionState{Name: "courses"})
	}
}
