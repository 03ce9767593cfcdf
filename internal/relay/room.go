// Package relay resolves slash-delimited room identifiers into validated
// room addresses and their durable storage locations.
package relay

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// RoomKind identifies which of the recognized room shapes an identifier
// matched.
type RoomKind int

const (
	// AdminRoom is the admin/superadmin channel: admins/<adminName>.
	AdminRoom RoomKind = iota
	// StudentRoom is the admin/student channel:
	// <course>/<batch>/admins/<adminName>/students/<studentName>.
	StudentRoom
	// ForumRoom is the batch-wide broadcast channel:
	// <course>/<batch>/forum/general.
	ForumRoom
)

// ErrInvalidRoom reports a room identifier that matches none of the
// recognized shapes.
var ErrInvalidRoom = errors.New("invalid room address")

// RoomAddress is a validated room identifier together with the storage
// location its log lives at. An address is immutable once resolved: equal
// identifiers always resolve to the same location, and two distinct
// identifiers of the same shape never share one.
type RoomAddress struct {
	// Kind is the matched room shape.
	Kind RoomKind
	// ID is the original slash-delimited identifier.
	ID string

	path string
}

// LogPath returns the room's log file path relative to the store root.
func (a RoomAddress) LogPath() string { return a.path }

// ResolveRoom validates a slash-delimited room identifier and derives its
// storage location. Resolution is pure: it performs no I/O, and missing
// directories are materialized by the log store on first append. Identifiers
// that match none of the three shapes, or that contain empty or dot
// segments, yield ErrInvalidRoom.
func ResolveRoom(room string) (RoomAddress, error) {
	parts := strings.Split(room, "/")
	for _, part := range parts {
		// Empty and dot segments would alias other rooms' locations.
		if part == "" || part == "." || part == ".." {
			return RoomAddress{}, fmt.Errorf("%w: %q", ErrInvalidRoom, room)
		}
	}

	switch {
	case len(parts) == 2 && parts[0] == "admins":
		return RoomAddress{
			Kind: AdminRoom,
			ID:   room,
			path: filepath.Join("admins", parts[1]+logExt),
		}, nil

	case len(parts) == 6 && parts[2] == "admins" && parts[4] == "students":
		course, batch, admin, student := parts[0], parts[1], parts[3], parts[5]
		return RoomAddress{
			Kind: StudentRoom,
			ID:   room,
			path: filepath.Join(course, batch, "admins", admin, "students", student+logExt),
		}, nil

	case len(parts) == 4 && parts[2] == "forum" && parts[3] == "general":
		return RoomAddress{
			Kind: ForumRoom,
			ID:   room,
			path: filepath.Join(parts[0], parts[1], "forum", "general"+logExt),
		}, nil
	}

	return RoomAddress{}, fmt.Errorf("%w: %q", ErrInvalidRoom, room)
}
