package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/partydrop/backend/internal/engine"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client is one connected render-feed consumer. The feed is one-way: the
// engine never depends on anything a client sends.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans the per-tick snapshot frames and the final round result out to
// every connected renderer.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

// NewHub creates an empty feed hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

// WSMessage is the frame envelope. Type is "snapshot" or "round_result".
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// BroadcastSnapshot implements engine.Broadcaster.
func (h *Hub) BroadcastSnapshot(s engine.Snapshot) {
	h.broadcast("snapshot", s)
}

// BroadcastResult implements engine.Broadcaster.
func (h *Hub) BroadcastResult(r engine.RoundResult) {
	h.broadcast("round_result", r)
}

func (h *Hub) broadcast(msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[WS] Error marshaling %s frame: %v", msgType, err)
		return
	}
	frame, err := json.Marshal(WSMessage{Type: msgType, Data: data})
	if err != nil {
		log.Printf("[WS] Error marshaling frame envelope: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		select {
		case client.send <- frame:
		default:
			// Slow consumer; dropping a frame beats stalling the feed.
		}
	}
}

// HandleFeed upgrades the connection and attaches it to the hub.
func (h *Hub) HandleFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}

	client := &Client{conn: conn, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()
	log.Printf("[WS] Feed client connected (%d total)", h.count())

	go client.writePump()
	go h.readPump(client)
}

func (h *Hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// readPump drains and discards client messages so pings/pongs and close
// frames are processed, detaching the client on error.
func (h *Hub) readPump(c *Client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		log.Printf("[WS] Feed client disconnected (%d total)", h.count())
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump writes frames to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed — connection is being cleaned up.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
