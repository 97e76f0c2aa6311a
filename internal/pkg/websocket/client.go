package websocket

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4 * 1024
)

var newline = []byte{'\n'}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from another origin than the gateway
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Subscription is the message a dashboard sends to pick collections.
// An empty topic set means every collection.
type Subscription struct {
	Subscribe   []string `json:"subscribe,omitempty"`
	Unsubscribe []string `json:"unsubscribe,omitempty"`
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub *Hub

	// The WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound messages
	send chan []byte

	// User ID of the client
	userID string

	// Collections this client listens to
	topicsMu sync.RWMutex
	topics   map[string]bool

	// Logger instance
	logger zerolog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, userID string, topics []string, logger zerolog.Logger) *Client {
	c := &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 64),
		userID: userID,
		topics: make(map[string]bool),
		logger: logger,
	}
	c.apply(Subscription{Subscribe: topics})
	return c
}

// subscribed reports whether events for collection go to this client
func (c *Client) subscribed(collection string) bool {
	c.topicsMu.RLock()
	defer c.topicsMu.RUnlock()
	return len(c.topics) == 0 || c.topics[collection]
}

func (c *Client) apply(sub Subscription) {
	c.topicsMu.Lock()
	defer c.topicsMu.Unlock()
	for _, name := range sub.Subscribe {
		if name = strings.TrimSpace(name); name != "" {
			c.topics[name] = true
		}
	}
	for _, name := range sub.Unsubscribe {
		delete(c.topics, strings.TrimSpace(name))
	}
}

// readPump reads subscription changes until the connection closes
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { return c.conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Info().Str("userID", c.userID).Msg("WebSocket closed normally")
			} else if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Str("userID", c.userID).Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).Str("userID", c.userID).Msg("WebSocket read error")
			}
			break
		}

		var sub Subscription
		if err := json.Unmarshal(bytes.TrimSpace(message), &sub); err != nil {
			c.logger.Warn().
				Err(err).
				Str("userID", c.userID).
				Msg("Failed to unmarshal subscription message")
			continue
		}
		c.apply(sub)
	}
}

// writePump pumps events from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			_, _ = w.Write(message)

			// Add queued events, one JSON document per line
			n := len(c.send)
			for i := 0; i < n; i++ {
				_, _ = w.Write(newline)
				_, _ = w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
