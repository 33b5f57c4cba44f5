package hub

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/teslashibe/go-chasecam/internal/log"
)

// Hub maintains the set of active clients and broadcasts events to them.
type Hub struct {
	name string

	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns

	mu      sync.RWMutex
	latest  map[EventKind]Message // replayed to new clients
	running atomic.Bool
}

// New creates a new Hub
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		latest:     make(map[EventKind]Message),
	}
}

// Run is the hub's main loop. It returns when ctx is cancelled, after
// closing every client. A hub runs once.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer close(h.done)
	defer h.running.Store(false)
	l := log.With("hub", h.name)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			count := len(h.clients)
			// Late joiners see the current state right away.
			for _, kind := range []EventKind{EventSession, EventStatus} {
				if m, ok := h.latest[kind]; ok {
					c.send <- m
				}
			}
			h.mu.Unlock()
			l.Debug("client connected", "clients", count)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			l.Debug("client disconnected", "clients", count)

		case m := <-h.broadcast:
			h.mu.Lock()
			if m.Kind == EventStatus || m.Kind == EventSession {
				h.latest[m.Kind] = m
			}
			for c := range h.clients {
				select {
				case c.send <- m:
				default:
					// Too slow to keep up.
					close(c.send)
					delete(h.clients, c)
					l.Warn("dropped slow client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// join hands c to the loop. It reports false, closing c's queue, when the
// hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		close(c.send)
		return false
	}
}

// leave hands c back to the loop; after shutdown the loop has already
// closed every client.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues m for every client. It never blocks; when the queue is
// full the message is dropped.
func (h *Hub) Broadcast(m Message) {
	select {
	case h.broadcast <- m:
	default:
		log.Warn("broadcast queue full, dropping event", "hub", h.name, "kind", string(m.Kind))
	}
}

// Publish encodes and broadcasts an event.
func (h *Hub) Publish(kind EventKind, data any) error {
	m, err := Encode(kind, data)
	if err != nil {
		return err
	}
	h.Broadcast(m)
	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// IsRunning returns whether the hub loop is running
func (h *Hub) IsRunning() bool {
	return h.running.Load()
}
