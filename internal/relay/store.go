// Package relay persists room logs as append-only text files beneath a
// single root directory.
package relay

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// logExt is the filename extension of every room log. The directory service
// relies on it to tell participant logs apart from sub-directories.
const logExt = ".txt"

// maxRecordSize bounds a single log record when reading history back.
const maxRecordSize = 1 << 20

// LogStore persists one append-only record log per room underneath a root
// directory. The on-disk layout mirrors the room address hierarchy, so the
// directory service can answer existence queries by listing it. Logs are
// created lazily on first append and never deleted by the relay.
type LogStore struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLogStore creates a store rooted at the given base directory. The
// directory itself is created lazily; constructing a store performs no I/O.
func NewLogStore(root string) *LogStore {
	return &LogStore{
		root:  root,
		locks: make(map[string]*sync.Mutex),
	}
}

// Root returns the base directory the store writes beneath.
func (s *LogStore) Root() string { return s.root }

func (s *LogStore) lockFor(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[path]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[path] = lock
	}
	return lock
}

// Load returns every record ever appended to the room's log, oldest first.
// A room that has never been written to yields an empty history, not an
// error.
func (s *LogStore) Load(addr RoomAddress) ([]string, error) {
	path := filepath.Join(s.root, addr.LogPath())

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open room log %s: %w", addr.ID, err)
	}
	defer func() { _ = f.Close() }()

	var records []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			records = append(records, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read room log %s: %w", addr.ID, err)
	}
	return records, nil
}

// Append durably writes line as the new final record of the room's log,
// materializing any missing directories first. Appends to the same room are
// serialized by a per-log lock so two records never interleave; different
// rooms append independently. The line must not contain a newline.
func (s *LogStore) Append(addr RoomAddress, line string) error {
	path := filepath.Join(s.root, addr.LogPath())

	lock := s.lockFor(path)
	lock.Lock()
	defer lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory for %s: %w", addr.ID, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open room log %s: %w", addr.ID, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("append to room log %s: %w", addr.ID, err)
	}
	return nil
}
