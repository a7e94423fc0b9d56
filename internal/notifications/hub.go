package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"travelog/internal/middleware"
	"travelog/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	maxConnsPerUser = 12
	maxTotalConns   = 10000
)

var (
	ErrServerFull = errors.New("server connection limit reached")
	ErrUserFull   = errors.New("user connection limit reached")
)

// Hub tracks live feed connections on this instance.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	perUser map[uint]int
	closed  bool
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		perUser: make(map[uint]int),
	}
}

// Register adds a connection. Anonymous viewers (userID 0) only count against the global limit.
func (h *Hub) Register(userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || len(h.clients) >= maxTotalConns {
		return nil, ErrServerFull
	}
	if userID != 0 && h.perUser[userID] >= maxConnsPerUser {
		return nil, ErrUserFull
	}

	client := newClient(h, conn, userID)
	h.clients[client] = struct{}{}
	if userID != 0 {
		h.perUser[userID]++
	}
	observability.WebSocketConnections.Inc()
	return client, nil
}

// UnregisterClient removes a connection and closes its send queue. Safe to call twice.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	if client.UserID != 0 {
		if h.perUser[client.UserID] <= 1 {
			delete(h.perUser, client.UserID)
		} else {
			h.perUser[client.UserID]--
		}
	}
	close(client.Send)
	observability.WebSocketConnections.Dec()
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastAll sends message to every connected client.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.clients {
		c.TrySend(data)
	}
}

// StartWiring forwards every event published on FeedChannel to local clients.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartFeedSubscriber(ctx, h.BroadcastAll)
}

// Shutdown drops every client. Each write pump then sends a going-away close frame.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for client := range h.clients {
		close(client.Send)
		observability.WebSocketConnections.Dec()
	}
	if n := len(h.clients); n > 0 {
		middleware.Logger.Info("closing live feed connections", slog.Int("count", n))
	}
	h.clients = make(map[*Client]struct{})
	h.perUser = make(map[uint]int)
	return nil
}
