package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// Collections a client may hold cached query results for.
const (
	CollectionAccounts = "accounts"
	CollectionStages   = "pipeline_stages"
	CollectionTasks    = "tasks"
)

// Client represents a connected WebSocket client. A user may have several
// (multiple tabs or devices).
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string
}

// Message is the wire format pushed to clients. The only server-initiated
// type is "invalidate", telling the client to re-fetch a collection after
// a mutation was acknowledged.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// InvalidatePayload names the collection whose cached query is now stale.
type InvalidatePayload struct {
	Collection string `json:"collection"`
}

// ReadPump drains messages from the WebSocket connection. Clients only
// ever send pings; everything else is ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("Error unmarshalling WebSocket message: %v", err)
			continue
		}

		if msg.Type == "ping" {
			pong, err := json.Marshal(Message{
				Type: "pong",
				Data: map[string]string{"timestamp": time.Now().Format(time.RFC3339)},
			})
			if err == nil {
				c.Send <- pong
			}
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush any queued messages into the same frame
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte("\n"))
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// userMessage pairs an outgoing message with the user it belongs to.
// Pushes are always scoped to one user's connections.
type userMessage struct {
	userID  string
	payload []byte
}

// Hub maintains the set of active clients and delivers invalidation
// notices to the owning user's connections.
type Hub struct {
	clients    map[*Client]bool
	deliver    chan userMessage
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new hub instance
func NewHub() *Hub {
	return &Hub{
		deliver:    make(chan userMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Invalidate tells every connection belonging to userID that a collection
// changed and its cached query should be re-fetched.
func (h *Hub) Invalidate(userID, collection string) {
	payload, err := json.Marshal(Message{
		Type: "invalidate",
		Data: InvalidatePayload{Collection: collection},
	})
	if err != nil {
		log.Printf("Error marshalling invalidate message: %v", err)
		return
	}
	h.deliver <- userMessage{userID: userID, payload: payload}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Client connected: %s", client.UserID)
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Printf("Client disconnected: %s", client.UserID)
			}
		case msg := <-h.deliver:
			for client := range h.clients {
				if client.UserID != msg.userID {
					continue
				}
				select {
				case client.Send <- msg.payload:
					// Message sent successfully
				default:
					// Client's send buffer is full, assume disconnected
					log.Printf("Client send buffer full, removing client: %s", client.UserID)
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}
