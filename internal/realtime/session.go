package realtime

import (
	"context"
	"encoding/json"
	"log"

	"panel-dashboard/internal/session"

	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Client struct {
	SessionID string
	Conn      Conn
}

// SessionHub pushes session events to every browser connection of the
// affected session.
type SessionHub struct {
	Register   chan *Client
	Unregister chan *Client
	Broadcast  chan session.Event

	clients map[string]map[*Client]bool
	size    chan int
	done    chan struct{}
}

func NewSessionHub() *SessionHub {
	return &SessionHub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Broadcast:  make(chan session.Event, 64),
		clients:    make(map[string]map[*Client]bool),
		size:       make(chan int),
		done:       make(chan struct{}),
	}
}

// Join registers c. It reports false once the hub has stopped.
func (h *SessionHub) Join(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Leave unregisters c; after the hub stopped it is a no-op.
func (h *SessionHub) Leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// Publish is a session.Monitor observer. It never blocks; when the
// buffer is full the event is dropped and browsers fall back to polling.
func (h *SessionHub) Publish(ev session.Event) {
	select {
	case h.Broadcast <- ev:
	default:
		log.Printf("[realtime] broadcast buffer full, dropping %s for %s", ev.Kind, ev.SessionID)
	}
}

// Connections reports how many sockets are registered. Only valid while
// Run is running.
func (h *SessionHub) Connections(ctx context.Context) int {
	select {
	case n := <-h.size:
		return n
	case <-ctx.Done():
		return 0
	case <-h.done:
		return 0
	}
}

func (h *SessionHub) count() int {
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Run owns the client map until ctx is done, then closes every socket.
func (h *SessionHub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for _, set := range h.clients {
			for c := range set {
				c.Conn.Close()
			}
		}
		h.clients = make(map[string]map[*Client]bool)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.Register:
			set, ok := h.clients[c.SessionID]
			if !ok {
				set = make(map[*Client]bool)
				h.clients[c.SessionID] = set
			}
			set[c] = true
		case c := <-h.Unregister:
			h.remove(c)
		case ev := <-h.Broadcast:
			msg, err := json.Marshal(ev)
			if err != nil {
				log.Printf("[realtime] marshal event: %v", err)
				continue
			}
			for c := range h.clients[ev.SessionID] {
				if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Printf("[realtime] write to %s: %v", ev.SessionID, err)
					h.remove(c)
				}
			}
		case h.size <- h.count():
		}
	}
}

func (h *SessionHub) remove(c *Client) {
	set, ok := h.clients[c.SessionID]
	if !ok || !set[c] {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.SessionID)
	}
	c.Conn.Close()
}
