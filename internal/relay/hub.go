// Package relay coordinates connection registration, room membership, and
// message fan-out via the Hub type.
package relay

import (
	"context"
	"log"
	"sync"
	"time"
)

// Hub tracks which live connections belong to which room and fans broadcast
// payloads out to a room's members. Membership lives only in memory; it is
// reconstructed empty when the relay restarts. All operations are safe for
// concurrent use, and removal on disconnect is synchronous: once Unregister
// returns, no later broadcast can deliver to that connection.
type Hub struct {
	mutex   sync.RWMutex
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	closed  bool

	wg sync.WaitGroup
}

// NewHub creates a Hub ready to admit connections.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		rooms:   make(map[string]map[*Client]bool),
	}
}

// Register admits a connection to the hub and reports whether it was
// accepted; a hub that is shutting down refuses new connections. Register
// does not place the connection in any room; that happens through Join.
func (h *Hub) Register(c *Client) bool {
	h.mutex.Lock()
	if h.closed {
		h.mutex.Unlock()
		c.closeConnection()
		return false
	}
	c.closed = false
	h.clients[c] = true
	clientCount := len(h.clients)
	h.mutex.Unlock()

	log.Printf("Client %s registered from %s. Total clients: %d", c.id, c.addr, clientCount)
	return true
}

// Unregister removes the connection from the hub and from every room it had
// joined, then releases its send queue. Only the first call for a given
// connection takes effect.
func (h *Hub) Unregister(c *Client) {
	h.mutex.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mutex.Unlock()
		return
	}
	delete(h.clients, c)
	h.leaveAllLocked(c)
	c.closed = true
	clientCount := len(h.clients)
	h.mutex.Unlock()

	// Close the channel after releasing the lock.
	close(c.send)
	log.Printf("Client %s unregistered from %s. Total clients: %d", c.id, c.addr, clientCount)
}

// Join registers the connection as a member of room. Joining a room twice is
// a no-op; broadcasts are never double-delivered.
func (h *Hub) Join(room string, c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[c]; !ok || c.closed {
		return
	}
	members := h.rooms[room]
	if members == nil {
		members = make(map[*Client]bool)
		h.rooms[room] = members
	}
	members[c] = true
}

// Leave removes the connection from room. Leaving a room it never joined is
// a no-op.
func (h *Hub) Leave(room string, c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	members := h.rooms[room]
	if members == nil {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// LeaveAll removes the connection from every room it is a member of.
func (h *Hub) LeaveAll(c *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.leaveAllLocked(c)
}

func (h *Hub) leaveAllLocked(c *Client) {
	for room, members := range h.rooms {
		if members[c] {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
}

// RoomSize returns how many connections are currently members of room.
func (h *Hub) RoomSize(room string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[room])
}

// Broadcast delivers payload to every connection currently a member of room,
// the sender included. Members whose send queues are full are dropped the
// same way a disconnected client is.
func (h *Hub) Broadcast(room string, payload []byte) {
	h.mutex.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
	}
	h.mutex.RUnlock()

	var failed []*Client
	for _, c := range members {
		if !h.safeSend(c, payload) {
			failed = append(failed, c)
		}
	}
	for _, c := range failed {
		log.Printf("Client %s removed due to full send buffer", c.addr)
		h.Unregister(c)
	}
}

func (h *Hub) safeSend(c *Client, payload []byte) bool {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in safeSend: %v", r)
		}
	}()

	// Hold the lock during the send so unregistration cannot race the
	// channel write.
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if _, ok := h.clients[c]; !ok || c.closed {
		return false
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// startPumps launches the connection's read and write goroutines and tracks
// them for shutdown.
func (h *Hub) startPumps(c *Client) {
	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		c.writePump()
	}()
	go func() {
		defer h.wg.Done()
		c.readPump()
	}()
}

// Shutdown closes every client connection and waits for their goroutines to
// finish, or until the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	log.Println("Initiating hub shutdown...")

	h.mutex.Lock()
	h.closed = true
	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mutex.Unlock()

	for _, c := range clients {
		c.closeConnection()
	}
	log.Printf("Closed %d client connections", len(clients))

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		log.Println("Hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
