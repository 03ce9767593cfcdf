package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// newTestClient registers a connection-less client with the hub so the send
// queue can be inspected directly.
func newTestClient(h *Hub) *Client {
	c := newClient(nil, h, nil, "test-client", 4096)
	h.Register(c)
	return c
}

func receivePayload(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.send:
		return payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for payload")
		return nil
	}
}

func expectNoPayload(t *testing.T, c *Client) {
	t.Helper()
	select {
	case payload, ok := <-c.send:
		if ok {
			t.Fatalf("expected no payload, got %q", payload)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubJoinIdempotent(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub)

	hub.Join("admins/bob", c)
	hub.Join("admins/bob", c)
	assert.Equal(t, 1, hub.RoomSize("admins/bob"))

	hub.Broadcast("admins/bob", []byte("once"))
	assert.Equal(t, []byte("once"), receivePayload(t, c))
	expectNoPayload(t, c)
}

func TestHubBroadcastEchoesToSender(t *testing.T) {
	hub := NewHub()
	sender := newTestClient(hub)
	other := newTestClient(hub)

	hub.Join("CS/Batch1/forum/general", sender)
	hub.Join("CS/Batch1/forum/general", other)

	hub.Broadcast("CS/Batch1/forum/general", []byte("alice: hi"))
	assert.Equal(t, []byte("alice: hi"), receivePayload(t, sender))
	assert.Equal(t, []byte("alice: hi"), receivePayload(t, other))
}

func TestHubRoomIsolation(t *testing.T) {
	hub := NewHub()
	inA := newTestClient(hub)
	inB := newTestClient(hub)

	hub.Join("admins/alice", inA)
	hub.Join("admins/bob", inB)

	hub.Broadcast("admins/alice", []byte("for A only"))
	assert.Equal(t, []byte("for A only"), receivePayload(t, inA))
	expectNoPayload(t, inB)
}

func TestHubLeaveIsIdempotent(t *testing.T) {
	hub := NewHub()
	member := newTestClient(hub)
	stranger := newTestClient(hub)

	hub.Join("admins/bob", member)

	// Leaving a room never joined must not disturb other members.
	hub.Leave("admins/bob", stranger)
	hub.Leave("admins/bob", stranger)

	hub.Broadcast("admins/bob", []byte("still here"))
	assert.Equal(t, []byte("still here"), receivePayload(t, member))
	expectNoPayload(t, stranger)
}

func TestHubLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub)

	hub.Join("admins/bob", c)
	hub.Leave("admins/bob", c)
	assert.Equal(t, 0, hub.RoomSize("admins/bob"))

	hub.Broadcast("admins/bob", []byte("gone"))
	expectNoPayload(t, c)
}

func TestHubLeaveAll(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub)

	hub.Join("admins/bob", c)
	hub.Join("CS/Batch1/forum/general", c)
	hub.LeaveAll(c)

	assert.Equal(t, 0, hub.RoomSize("admins/bob"))
	assert.Equal(t, 0, hub.RoomSize("CS/Batch1/forum/general"))
}

func TestHubUnregisterRemovesAllMemberships(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub)
	other := newTestClient(hub)

	hub.Join("admins/bob", c)
	hub.Join("CS/Batch1/forum/general", c)
	hub.Join("CS/Batch1/forum/general", other)

	hub.Unregister(c)
	assert.Equal(t, 0, hub.RoomSize("admins/bob"))
	assert.Equal(t, 1, hub.RoomSize("CS/Batch1/forum/general"))

	// Broadcasts after unregistration must not reach the gone connection.
	hub.Broadcast("CS/Batch1/forum/general", []byte("post-disconnect"))
	assert.Equal(t, []byte("post-disconnect"), receivePayload(t, other))
	expectNoPayload(t, c)

	// A second unregister is a no-op.
	hub.Unregister(c)
}

func TestHubJoinAfterUnregisterIgnored(t *testing.T) {
	hub := NewHub()
	c := newTestClient(hub)

	hub.Unregister(c)
	hub.Join("admins/bob", c)
	assert.Equal(t, 0, hub.RoomSize("admins/bob"))
}
