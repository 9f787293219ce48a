package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/pipedeck/pipedeck/services"
)

// WebSocketHandler upgrades connections for invalidation push.
type WebSocketHandler struct {
	hub *services.Hub
}

func NewWebSocketHandler(hub *services.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Handle upgrades the HTTP connection to a WebSocket connection and
// registers it under the authenticated user. Multiple connections per
// user are fine (tabs, devices); each receives the user's invalidation
// notices.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := userFromContext(r)
	if !ok {
		http.Error(w, "user not found", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins in development
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	client := &services.Client{
		Hub:    h.hub,
		Conn:   conn,
		Send:   make(chan []byte, 256),
		UserID: userID,
	}

	h.hub.Register(client)
	log.Printf("WebSocket client registered: %s", userID)

	go client.WritePump()
	go client.ReadPump()
}
