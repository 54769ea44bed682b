package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Clients only send control frames.
	maxMessageSize = 512
	// Snapshots are sent at most this often; changes in between coalesce.
	publishEvery = 100 * time.Millisecond
)

// Hub pushes the current game snapshot to every connected websocket client
// whenever the machine changes.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	dirty      chan struct{}
	done       chan struct{}
	snapshot   func() ([]byte, error)
	upgrader   websocket.Upgrader
}

// Client is one websocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub builds a hub that serializes snapshots with the given function.
func NewHub(snapshot func() ([]byte, error)) *Hub {
	allowed := allowedOrigins()
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		dirty:      make(chan struct{}, 1),
		done:       make(chan struct{}),
		snapshot:   snapshot,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed[origin]
			},
		},
	}
}

// Publish marks the snapshot stale. It never blocks.
func (h *Hub) Publish() {
	select {
	case h.dirty <- struct{}{}:
	default:
	}
}

// Run handles connections and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(publishEvery)
	defer ticker.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			slog.Info("websocket hub stopped")
			return
		case client := <-h.register:
			h.clients[client] = true
			h.sendTo(client)
			slog.Debug("websocket client connected", "clients", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				slog.Debug("websocket client disconnected", "clients", len(h.clients))
			}
		case <-h.dirty:
			pending = true
		case <-ticker.C:
			if pending {
				pending = false
				h.broadcast()
			}
		}
	}
}

func (h *Hub) broadcast() {
	if len(h.clients) == 0 {
		return
	}
	msg, err := h.snapshot()
	if err != nil {
		slog.Error("serialize snapshot", "error", err)
		return
	}
	for client := range h.clients {
		h.deliver(client, msg)
	}
}

func (h *Hub) sendTo(client *Client) {
	msg, err := h.snapshot()
	if err != nil {
		slog.Error("serialize snapshot", "error", err)
		return
	}
	h.deliver(client, msg)
}

// deliver drops clients that cannot keep up.
func (h *Hub) deliver(client *Client, msg []byte) {
	select {
	case client.send <- msg:
	default:
		close(client.send)
		delete(h.clients, client)
	}
}

// ServeWS upgrades the request and attaches the connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 16)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump consumes control frames so pongs and close are processed.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("websocket read error", "error", err)
			}
			return
		}
	}
}

// writePump sends one snapshot per text message and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
