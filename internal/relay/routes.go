// Package relay wires the relay's HTTP endpoints into a router.
package relay

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter returns a router with the health check and WebSocket endpoints
// mounted. Callers may mount further routes (such as the chatroom directory
// API) on the returned mux.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/", HealthHandler)
	r.Get("/ws", h.ServeWS)
	return r
}
