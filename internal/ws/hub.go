// Package ws pushes server events to connected users over websockets.
package ws

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Hub tracks connected clients by user. A user may hold several connections.
type Hub struct {
	clients    map[*Client]bool
	byUser     map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *log.Logger
}

func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
	}
}

// Run serves register and unregister requests until ctx is done, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for c := range h.clients {
				h.drop(c)
			}
			h.mutex.Unlock()
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			set := h.byUser[client.userID]
			if set == nil {
				set = make(map[*Client]struct{})
				h.byUser[client.userID] = set
			}
			set[client] = struct{}{}
			total := len(h.clients)
			h.mutex.Unlock()
			h.logf("level=info msg=ws_connected user_id=%s total_clients=%d", client.userID, total)

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.drop(client)
			total := len(h.clients)
			h.mutex.Unlock()
			h.logf("level=info msg=ws_disconnected user_id=%s total_clients=%d", client.userID, total)
		}
	}
}

// drop removes c and closes its send queue. Caller holds mutex.
func (h *Hub) drop(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if set := h.byUser[c.userID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byUser, c.userID)
		}
	}
	close(c.send)
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	select {
	case h.unregister <- client:
	default:
		h.mutex.Lock()
		h.drop(client)
		h.mutex.Unlock()
	}
}

// SendToUser queues message on every connection of userID and returns how
// many accepted it. A client whose queue is full is disconnected.
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) int {
	if h == nil {
		return 0
	}
	delivered := 0
	var slow []*Client
	// sends happen under the read lock so drop cannot close a queue mid-send
	h.mutex.RLock()
	for c := range h.byUser[userID] {
		select {
		case c.send <- message:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mutex.RUnlock()

	for _, c := range slow {
		h.logf("level=warn msg=ws_slow_client user_id=%s", c.userID)
		h.Unregister(c)
	}
	return delivered
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) logf(format string, args ...any) {
	if h.logger != nil {
		h.logger.Printf(format, args...)
	}
}
