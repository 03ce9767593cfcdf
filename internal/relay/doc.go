// Package relay implements the real-time chat relay for the educational
// platform: hierarchical room address resolution, append-only per-room
// message logs with full history replay on join, in-memory room membership
// with fan-out broadcast, and the WebSocket transport that glues them
// together.
//
// The implementation is organized into specialized files for room
// addressing, the log store, the membership hub, connection pumps, and HTTP
// wiring to keep the codebase maintainable and testable as the project
// grows.
package relay
