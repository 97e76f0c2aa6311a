package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/campusdesk/internal/app/models/dto"
)

// EventCollectionChanged is sent whenever a cached collection changes
const EventCollectionChanged = "collection.changed"

// Event is pushed to dashboards so they can re-render without polling
type Event struct {
	// Type of event, currently always "collection.changed"
	Type string `json:"type"`

	// State of the collection after the change
	Collection dto.CollectionState `json:"collection"`

	// Timestamp when the change was published
	Timestamp time.Time `json:"timestamp"`

	// session whose cache changed; only its own connections receive the event
	owner string
}

// Hub maintains the set of active clients and fans change events out to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Events waiting to be broadcast
	broadcast chan *Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	// Guards clients for ClientCount
	mu sync.RWMutex

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run handles registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info().
		Str("userID", client.userID).
		Str("addr", client.conn.RemoteAddr().String()).
		Msg("Client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)

		h.logger.Info().
			Str("userID", client.userID).
			Str("addr", client.conn.RemoteAddr().String()).
			Msg("Client unregistered")
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	h.logger.Info().Msg("Hub stopped")
}

// broadcastEvent sends an event to the owner's clients subscribed to its collection
func (h *Hub) broadcastEvent(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("collection", event.Collection.Name).
			Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for client := range h.clients {
		if client.userID != event.owner || !client.subscribed(event.Collection.Name) {
			continue
		}
		select {
		case client.send <- data:
			sent++
		default:
			// send buffer full: the client is too slow, drop it
			delete(h.clients, client)
			close(client.send)
			h.logger.Warn().Str("userID", client.userID).Msg("Dropped slow client")
		}
	}

	h.logger.Debug().
		Str("collection", event.Collection.Name).
		Int("clientCount", sent).
		Msg("Event broadcasted")
}

// Publish queues a change to owner's cache. It never blocks the caller: when
// the queue is full the event is dropped.
func (h *Hub) Publish(owner string, state dto.CollectionState) {
	event := &Event{
		Type:       EventCollectionChanged,
		Collection: state,
		Timestamp:  time.Now(),
		owner:      owner,
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Str("collection", state.Name).Msg("Event queue full, change event dropped")
	}
}

// join hands a new client to Run; false once the hub has stopped
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave hands a departing client to Run
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
