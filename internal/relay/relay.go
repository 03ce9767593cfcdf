// Package relay glues the room resolver, log store, and membership hub to
// the transport via the Relay type.
package relay

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
)

// Relay is the server-side state machine behind every connection: join
// replays a room's persisted history to the requester and admits it to the
// hub; send appends to the room's log and fans the record out to all
// members. One Relay instance is constructed at process start; it owns its
// hub and store rather than relying on process-wide state.
type Relay struct {
	hub   *Hub
	store *LogStore

	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

// NewRelay wires a hub and a log store into a relay.
func NewRelay(hub *Hub, store *LogStore) *Relay {
	return &Relay{
		hub:   hub,
		store: store,
		rooms: make(map[string]*sync.Mutex),
	}
}

// roomLock returns the mutex serializing operations on one room. Holding it
// across an append+broadcast pair keeps the persisted order identical to the
// broadcast order, and holding it across a join's history-load+admit closes
// the window in which a concurrent send could be lost to the joiner.
func (r *Relay) roomLock(room string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.rooms[room]
	if !ok {
		lock = &sync.Mutex{}
		r.rooms[room] = lock
	}
	return lock
}

// Join resolves the room, replays its full history to the joining connection
// only, and registers the connection as a member. An unresolvable room is a
// silent no-op: a warning is logged, no history is emitted, and no
// membership is created. A storage failure is returned to the caller.
func (r *Relay) Join(c *Client, name, room string) error {
	addr, err := ResolveRoom(room)
	if err != nil {
		log.Printf("Ignoring join from %s: %v", c.addr, err)
		return nil
	}

	if name != "" {
		c.name = name
	}
	log.Printf("Client %s joined %s as %q", c.addr, addr.ID, c.name)

	lock := r.roomLock(addr.ID)
	lock.Lock()
	defer lock.Unlock()

	records, err := r.store.Load(addr)
	if err != nil {
		return fmt.Errorf("load history for %s: %w", addr.ID, err)
	}

	// Admit before replying, under the room lock: a concurrent send either
	// lands in the loaded history or is broadcast after the history frame is
	// queued, never both and never neither.
	r.hub.Join(addr.ID, c)

	payload, err := json.Marshal(newHistoryEvent(addr.ID, records))
	if err != nil {
		return fmt.Errorf("encode history for %s: %w", addr.ID, err)
	}
	if !r.hub.safeSend(c, payload) {
		log.Printf("Dropped history replay for %s: client %s gone or backed up", addr.ID, c.addr)
	}
	return nil
}

// Send appends "<name>: <body>" to the room's log and broadcasts it to every
// member, the sender included. An unresolvable room drops the message
// entirely: nothing is persisted and nothing is broadcast. The connection is
// not required to have joined the room first; sender identity and room are
// taken from the payload as-is. A storage failure is returned to the caller
// and skips the broadcast, so the log never lags what members saw.
func (r *Relay) Send(c *Client, name, room, body string) error {
	addr, err := ResolveRoom(room)
	if err != nil {
		log.Printf("Dropping message from %s: %v", c.addr, err)
		return nil
	}

	line := formatRecord(name, body)

	lock := r.roomLock(addr.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := r.store.Append(addr, line); err != nil {
		return fmt.Errorf("persist message to %s: %w", addr.ID, err)
	}

	payload, err := json.Marshal(newMessageEvent(addr.ID, line))
	if err != nil {
		return fmt.Errorf("encode message for %s: %w", addr.ID, err)
	}
	r.hub.Broadcast(addr.ID, payload)
	return nil
}

// Leave removes the connection from the room's membership. Nothing is
// emitted in response, and leaving a room never joined is a no-op.
func (r *Relay) Leave(c *Client, room string) {
	addr, err := ResolveRoom(room)
	if err != nil {
		log.Printf("Ignoring leave from %s: %v", c.addr, err)
		return
	}
	r.hub.Leave(addr.ID, c)
}

// formatRecord renders one message as a single log record. Newlines in both
// the sender name and the body are escaped so a record always occupies
// exactly one line; a raw name could otherwise split the record and forge
// history lines attributed to another sender.
func formatRecord(name, body string) string {
	return escapeNewlines(name) + ": " + escapeNewlines(body)
}

func escapeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", "\\n")
}
