// Package relay defines the JSON event envelopes exchanged over the
// WebSocket transport.
package relay

// Event names carried in the "event" field of every frame.
const (
	EventJoinRoom    = "joinRoom"
	EventLeaveRoom   = "leaveRoom"
	EventMessage     = "message"
	EventChatHistory = "chatHistory"
)

// ClientEvent is the envelope for every client-to-server frame. Name and
// Message are unused for leaveRoom. Both the sender name and the room are
// supplied by the client and taken at face value; identity verification is
// the authentication service's concern, not the relay's.
type ClientEvent struct {
	Event   string `json:"event"`
	Name    string `json:"name,omitempty"`
	Room    string `json:"room"`
	Message string `json:"message,omitempty"`
}

// MessageEvent is a live message fanned out to every member of a room,
// the sender included.
type MessageEvent struct {
	Event   string `json:"event"`
	Room    string `json:"room"`
	Message string `json:"message"`
}

// HistoryEvent replays a room's full persisted log, oldest record first, to
// a single joining connection.
type HistoryEvent struct {
	Event    string   `json:"event"`
	Room     string   `json:"room"`
	Messages []string `json:"messages"`
}

func newMessageEvent(room, line string) MessageEvent {
	return MessageEvent{Event: EventMessage, Room: room, Message: line}
}

func newHistoryEvent(room string, records []string) HistoryEvent {
	if records == nil {
		// An empty-but-valid room replays an empty list, never null, so
		// clients can tell it apart from "no room resolved".
		records = []string{}
	}
	return HistoryEvent{Event: EventChatHistory, Room: room, Messages: records}
}
