// Package relay exposes the WebSocket upgrade endpoint and the health check.
package relay

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests to WebSocket connections and hands them to
// the relay.
type Handler struct {
	hub      *Hub
	relay    *Relay
	upgrader websocket.Upgrader

	maxMessageSize int64
}

// NewHandler builds the upgrade handler for the given hub and relay, with
// origin checking from the configuration.
func NewHandler(hub *Hub, relay *Relay, cfg *Config) *Handler {
	checker := newOriginChecker(cfg.AllowedOrigins)
	return &Handler{
		hub:   hub,
		relay: relay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checker.check,
		},
		maxMessageSize: cfg.MaxMessageSize,
	}
}

// ServeWS handles a WebSocket upgrade request, registers the resulting
// connection with the hub, and starts its read/write pumps.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(conn, h.hub, h.relay, r.RemoteAddr, h.maxMessageSize)
	if h.hub.Register(client) {
		h.hub.startPumps(client)
	}
}

// HealthHandler reports that the relay is up.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "Chat relay is running!")
}
