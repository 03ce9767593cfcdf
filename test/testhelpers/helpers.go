// Package testhelpers provides common utilities for exercising the chat
// relay over real WebSocket connections.
//
// It contains reusable helpers shared across the integration tests: spinning
// up a fully wired relay server, dialing its WebSocket endpoint, and reading
// protocol events with deadlines so a misbehaving server fails tests fast
// instead of hanging them.
package testhelpers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edurelay/chat-server/internal/directory"
	"github.com/edurelay/chat-server/internal/relay"
)

// ServerEvent mirrors every field a server-to-client frame can carry.
type ServerEvent struct {
	Event    string   `json:"event"`
	Room     string   `json:"room"`
	Message  string   `json:"message"`
	Messages []string `json:"messages"`
}

// RelayServer bundles a running relay with the handles tests need to drive
// and stop it.
type RelayServer struct {
	HTTP   *httptest.Server
	Hub    *relay.Hub
	LogDir string
}

// StartRelayServer wires a complete relay (store, hub, relay, directory API)
// over the given log directory and serves it from an httptest server. All
// origins are allowed so test dials need no Origin header.
func StartRelayServer(t *testing.T, logDir string) *RelayServer {
	t.Helper()

	cfg := relay.NewConfig()
	cfg.AllowedOrigins = []string{"*"}
	cfg.LogDir = logDir

	store := relay.NewLogStore(logDir)
	hub := relay.NewHub()
	rly := relay.NewRelay(hub, store)
	handler := relay.NewHandler(hub, rly, cfg)

	router := relay.NewRouter(handler)
	router.Mount("/chatrooms", directory.Routes(directory.NewService(logDir)))

	ts := httptest.NewServer(router)
	return &RelayServer{HTTP: ts, Hub: hub, LogDir: logDir}
}

// Stop shuts the server down the way the process would: HTTP first, then the
// hub.
func (s *RelayServer) Stop(t *testing.T) {
	t.Helper()
	s.HTTP.Close()
	if err := s.Hub.Shutdown(5 * time.Second); err != nil {
		t.Logf("hub shutdown: %v", err)
	}
}

// Dial opens a WebSocket connection to the relay's /ws endpoint and
// registers cleanup for it.
func (s *RelayServer) Dial(t *testing.T) *websocket.Conn {
	t.Helper()
	wsURL := strings.Replace(s.HTTP.URL, "http://", "ws://", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial %s: %v", wsURL, err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// SendEvent marshals and writes a client event frame.
func SendEvent(t *testing.T, conn *websocket.Conn, ev relay.ClientEvent) {
	t.Helper()
	if err := conn.WriteJSON(ev); err != nil {
		t.Fatalf("Failed to write %s event: %v", ev.Event, err)
	}
}

// ReadEvent reads the next server event frame, failing the test if none
// arrives within the timeout.
func ReadEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) ServerEvent {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	var ev ServerEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	return ev
}

// ExpectNoEvent asserts that no frame arrives within the timeout.
func ExpectNoEvent(t *testing.T, conn *websocket.Conn, timeout time.Duration) {
	t.Helper()
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		t.Fatalf("Failed to set read deadline: %v", err)
	}
	var ev ServerEvent
	err := conn.ReadJSON(&ev)
	if err == nil {
		t.Fatalf("Expected no event, but received %q", ev.Event)
	}
	if netErr, ok := err.(interface{ Timeout() bool }); ok && netErr.Timeout() {
		return
	}
	t.Fatalf("Unexpected error while waiting for absence of event: %v", err)
}
