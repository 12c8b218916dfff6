package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 5 * time.Second

// wsClient pairs a connection with a write lock. gorilla/websocket allows
// only one concurrent writer per connection, so every outbound frame goes
// through write.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsClient) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Hub fans one JSON payload per refresh cycle out to every connected
// websocket consumer. Slow or broken connections are dropped rather than
// allowed to stall the broadcast.
type Hub struct {
	name     string
	mu       sync.Mutex
	clients  map[*wsClient]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
	closed   bool
}

// NewHub creates a broadcast hub for one topic
func NewHub(name string) *Hub {
	return &Hub{
		name:    name,
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Consumers connect from arbitrary dashboard origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: slog.Default().With("module", "ws_hub", "topic", name),
	}
}

// HandleWS upgrades the request and keeps the connection registered until
// the peer goes away
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := &wsClient{conn: conn}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[client] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("consumer connected", "remote", conn.RemoteAddr().String(), "total", n)

	// Drain the read side so pings and close frames are processed. Inbound
	// payloads are ignored; the hub is broadcast-only.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(client)
}

// Broadcast marshals v once and writes it to every connection
func (h *Hub) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("failed to marshal broadcast payload", "error", err)
		return
	}

	h.mu.Lock()
	clients := make([]*wsClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if err := client.write(websocket.TextMessage, data); err != nil {
			h.logger.Warn("dropping consumer", "remote", client.conn.RemoteAddr().String(), "error", err)
			h.remove(client)
		}
	}
}

// ConsumerCount reports the number of connected consumers
func (h *Hub) ConsumerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every consumer and rejects new ones. Safe to call while
// broadcasts are in flight; the per-connection lock serializes the frames.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*wsClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*wsClient]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		client.write(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		client.conn.Close()
	}
}

func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()
	if ok {
		client.conn.Close()
	}
}
