// Package relay manages individual WebSocket connections, handling read/write
// pumps, event decoding, and lifecycle control for each connection.
package relay

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single write to the peer.
	writeWait = 10 * time.Second
	// pongWait is how long the peer may stay silent before the read side
	// gives up.
	pongWait = 60 * time.Second
	// pingInterval must be shorter than pongWait.
	pingInterval = 54 * time.Second
)

// Client represents one live transport session. It carries an opaque
// connection id, the display name supplied by the most recent join (not
// authenticated by this subsystem), and a buffered send queue drained by the
// write pump. Room membership is tracked by the Hub, not here.
type Client struct {
	id    uuid.UUID
	name  string
	conn  *websocket.Conn
	send  chan []byte
	hub   *Hub
	relay *Relay
	addr  string

	// closed is guarded by the hub mutex.
	closed bool

	maxMessageSize int64
}

// newClient creates a Client for the given WebSocket connection. The send
// channel is buffered to absorb bursts of room traffic.
func newClient(conn *websocket.Conn, hub *Hub, relay *Relay, addr string, maxMessageSize int64) *Client {
	if conn != nil {
		conn.SetReadLimit(maxMessageSize)
	}
	return &Client{
		id:             uuid.New(),
		conn:           conn,
		send:           make(chan []byte, 256),
		hub:            hub,
		relay:          relay,
		addr:           addr,
		maxMessageSize: maxMessageSize,
	}
}

// ID returns the connection's opaque identifier.
func (c *Client) ID() uuid.UUID { return c.id }

// setupReadConnection configures read deadlines and the pong handler.
func (c *Client) setupReadConnection() {
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Error setting initial read deadline for %s: %v", c.addr, err)
	}
	c.conn.SetPongHandler(func(string) error {
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Error setting read deadline in pong handler for %s: %v", c.addr, err)
		}
		return nil
	})
}

// logReadError classifies the read failure for the log. Every read error is
// terminal for the connection.
func (c *Client) logReadError(err error) {
	switch {
	case errors.Is(err, websocket.ErrReadLimit):
		log.Printf("Message from %s exceeded maximum size of %d bytes", c.addr, c.maxMessageSize)
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure):
		log.Printf("Client %s disconnected: %v", c.addr, err)
	case errors.Is(err, io.EOF) || isExpectedCloseError(err):
		log.Printf("Client %s connection closed: %v", c.addr, err)
	default:
		log.Printf("WebSocket read error from %s: %v", c.addr, err)
	}
}

// handleEvent decodes a raw frame and dispatches it to the relay. Malformed
// frames and unknown events are logged and dropped; they never tear the
// connection down.
func (c *Client) handleEvent(raw []byte) bool {
	var ev ClientEvent
	if err := json.Unmarshal(raw, &ev); err != nil {
		log.Printf("Invalid event from %s: %v", c.addr, err)
		return false
	}

	switch ev.Event {
	case EventJoinRoom:
		if err := c.relay.Join(c, ev.Name, ev.Room); err != nil {
			log.Printf("Join failed for %s: %v", c.addr, err)
			return false
		}
	case EventMessage:
		if err := c.relay.Send(c, ev.Name, ev.Room, ev.Message); err != nil {
			log.Printf("Send failed for %s: %v", c.addr, err)
			return false
		}
	case EventLeaveRoom:
		c.relay.Leave(c, ev.Room)
	default:
		log.Printf("Unknown event %q from %s", ev.Event, c.addr)
		return false
	}
	return true
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.closeConnection()
	}()

	c.setupReadConnection()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.logReadError(err)
			break
		}
		c.handleEvent(raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Printf("Error setting write deadline for %s: %v", c.addr, err)
				return
			}
			if !ok {
				c.writeCloseMessage()
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				if !isExpectedCloseError(err) {
					log.Printf("Error writing message to %s: %v", c.addr, err)
				}
				return
			}
		case <-ticker.C:
			if !c.handlePing() {
				return
			}
		}
	}
}

// writeCloseMessage tells the peer the server is done with the connection.
func (c *Client) writeCloseMessage() {
	if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
		if !isExpectedCloseError(err) {
			log.Printf("Error writing close message to %s: %v", c.addr, err)
		}
	}
}

// handlePing sends a ping to keep the connection alive.
func (c *Client) handlePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Error setting write deadline for ping to %s: %v", c.addr, err)
		return false
	}
	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		if !isExpectedCloseError(err) {
			log.Printf("Error writing ping message to %s: %v", c.addr, err)
		}
		return false
	}
	return true
}

// closeConnection closes the underlying connection, tolerating repeat calls
// and connections that were never established (as in tests).
func (c *Client) closeConnection() {
	if c.conn == nil {
		return
	}
	if err := c.conn.Close(); err != nil {
		if !isExpectedCloseError(err) {
			log.Printf("Error closing connection for %s: %v", c.addr, err)
		}
	}
}
