package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Client is one WebSocket subscriber, pinned to a single board.
type Client struct {
	Conn    *websocket.Conn
	BoardID int
	Mu      sync.Mutex
}

// Event is the payload broadcast to clients watching a board.
type Event struct {
	Type    string `json:"type"` // task_created, task_updated, task_deleted
	BoardID int    `json:"board_id"`
	TaskID  int    `json:"task_id"`
}

// Hub fans task events out to the clients of the affected board.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan Event
	Register   chan *Client
	Unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan Event, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.Clients[client] = true
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				client.Conn.Close()
			}
		case event := <-h.Broadcast:
			message, err := json.Marshal(event)
			if err != nil {
				continue
			}
			for client := range h.Clients {
				if client.BoardID != event.BoardID {
					continue
				}
				client.Mu.Lock()
				err := client.Conn.WriteMessage(websocket.TextMessage, message)
				client.Mu.Unlock()
				if err != nil {
					go func(c *Client) { h.Unregister <- c }(client)
				}
			}
		}
	}
}

// Notify enqueues an event without blocking the request path. Events are
// dropped when the hub is saturated; delivery is best effort.
func (h *Hub) Notify(event Event) {
	select {
	case h.Broadcast <- event:
	default:
	}
}
