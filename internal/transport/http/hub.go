package http

import (
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/guimilreu/quizz/internal/domain"
)

type client struct {
	conn *websocket.Conn
	send chan domain.Event
}

// Hub maps connection ids to live websocket clients and implements
// app.Gateway. Each client gets a buffered send channel drained by a
// single writer goroutine, so no two goroutines ever write the same
// connection.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// Register wires a freshly upgraded connection into the hub and starts
// its writer.
func (h *Hub) Register(connID string, conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan domain.Event, 16)}

	h.mu.Lock()
	h.clients[connID] = c
	h.mu.Unlock()

	go func() {
		for event := range c.send {
			if err := c.conn.WriteJSON(event); err != nil {
				log.Printf("ws write to %s failed: %v", connID, err)
				return
			}
		}
	}()
}

// Unregister detaches the connection and stops its writer. Safe to call
// once per connection, after the last Send for it can still be in
// flight elsewhere; the lock ordering below keeps Send and the channel
// close mutually exclusive.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[connID]; ok {
		delete(h.clients, connID)
		close(c.send)
	}
}

// Send queues an event for one connection. Delivery is at-most-once: an
// unknown connection is a silent drop, and a full buffer sheds the
// oldest queued event so a slow client never blocks a room's command
// handling.
func (h *Hub) Send(connID string, event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[connID]
	if !ok {
		return
	}
	select {
	case c.send <- event:
	default:
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- event:
		default:
		}
	}
}
