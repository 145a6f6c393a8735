package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"brokerage/internal/middleware"
	"brokerage/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const maxListeners = 5000

// ErrHubFull is returned by Register when the listener limit is reached.
var ErrHubFull = errors.New("revalidate listener limit reached")

// Hub tracks websocket listeners and broadcasts revalidation events to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	closed  bool
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds conn as a listener.
func (h *Hub) Register(conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || len(h.clients) >= maxListeners {
		return nil, ErrHubFull
	}

	c := &Client{hub: h, Conn: conn, Send: make(chan []byte, sendBuffer)}
	h.clients[c] = struct{}{}
	observability.RevalidateSubscribers.Inc()
	return c, nil
}

// Unregister removes c and closes its send queue. It is safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.Send)
	observability.RevalidateSubscribers.Dec()
}

// Count returns the number of registered listeners.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues payload for every listener and returns how many accepted it.
func (h *Hub) Broadcast(payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for c := range h.clients {
		if c.TrySend(payload) {
			delivered++
		}
	}
	return delivered
}

// StartWiring forwards every event published through n to the hub's listeners.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.Subscribe(ctx, func(payload string) {
		h.Broadcast([]byte(payload))
	})
}

// Shutdown sends a close frame to every listener and drops them.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		if c.Conn != nil {
			if err := c.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				middleware.Logger.Debug("failed to write close frame", slog.String("error", err.Error()))
			}
			_ = c.Conn.Close()
		}
		delete(h.clients, c)
		close(c.Send)
		observability.RevalidateSubscribers.Dec()
	}
	return nil
}
