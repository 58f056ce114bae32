package realtime

import (
	"sync"

	"jobs-srv/pkg/log"
)

// Hub maintains the set of active dashboard connections and routes
// in-app notifications to them.
type Hub struct {
	// Registered connections.
	clients map[*Connection]bool

	// User to connections mapping for targeted delivery.
	// user_id -> set of connections
	users map[string]map[*Connection]bool

	// Messages for every connected client.
	broadcast chan []byte

	// Register requests from the connections.
	register chan *Connection

	// Unregister requests from connections.
	unregister chan *Connection

	// Lock for maps
	mu sync.RWMutex

	quit chan struct{}
	done chan struct{}

	l log.Logger
}

// NewHub creates a hub. Run must be started before connections register.
func NewHub(l log.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Connection]bool),
		users:      make(map[string]map[*Connection]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
		l:          l,
	}
}

// Run processes register, unregister and broadcast events until Shutdown.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if _, ok := h.users[client.userID]; !ok {
				h.users[client.userID] = make(map[*Connection]bool)
			}
			h.users[client.userID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for client := range h.clients {
				h.removeLocked(client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// removeLocked drops a connection from both maps. Caller holds h.mu.
func (h *Hub) removeLocked(client *Connection) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	if userConns, ok := h.users[client.userID]; ok {
		delete(userConns, client)
		if len(userConns) == 0 {
			delete(h.users, client.userID)
		}
	}
}

// SendToUser sends a message to all active connections of a specific user.
func (h *Hub) SendToUser(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.users[userID] {
		select {
		case client.send <- message:
		default:
			// Buffer full or connection dead, writePump will tear it down.
		}
	}
}

// Broadcast sends a message to every active connection.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// Stats returns the number of active connections and of unique users.
func (h *Hub) Stats() (int, int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients), len(h.users)
}

// Shutdown stops the run loop and closes every connection's send channel.
func (h *Hub) Shutdown() {
	close(h.quit)
	<-h.done
}
