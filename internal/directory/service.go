// Package directory answers read-only queries over the chat log hierarchy:
// which admins, batches, and participants exist beneath a given prefix. It
// never mutates storage; the relay's log store is the only writer.
package directory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// logExt matches the extension the log store gives every room log.
const logExt = ".txt"

// ErrBatchNotFound reports a metadata lookup for a batch no course contains.
var ErrBatchNotFound = errors.New("batch not found")

// BatchMetadata resolves a batch name to its course and the forum module
// names available under it.
type BatchMetadata struct {
	Course  string   `json:"course"`
	Modules []string `json:"modules"`
}

// Service lists participants and sub-rooms straight off the log store's
// directory layout. Prefixes that do not exist yield empty collections, not
// errors, so callers can probe freely.
type Service struct {
	root string
}

// NewService creates a directory service over the given log root. It should
// be the same directory the relay's log store writes beneath.
func NewService(root string) *Service {
	return &Service{root: root}
}

// TopLevel lists every top-level entry of the room namespace: the courses,
// plus the admins subtree once any admin channel exists.
func (s *Service) TopLevel() ([]string, error) {
	return s.listDirs(s.root)
}

// Admins lists every admin name that has an admin/superadmin channel.
func (s *Service) Admins() ([]string, error) {
	return s.listLogs(filepath.Join(s.root, "admins"))
}

// Batches lists the batch names under a course.
func (s *Service) Batches(course string) ([]string, error) {
	return s.listDirs(filepath.Join(s.root, course))
}

// ModuleParticipants lists the participant names under a course/batch/module
// subtree.
func (s *Service) ModuleParticipants(course, batch, module string) ([]string, error) {
	return s.listLogs(filepath.Join(s.root, course, batch, module, "students"))
}

// AdminStudents lists the student names an admin has channels with in a
// batch.
func (s *Service) AdminStudents(course, batch, admin string) ([]string, error) {
	return s.listLogs(filepath.Join(s.root, course, batch, "admins", admin, "students"))
}

// BatchMetadata scans every course for the named batch and returns its
// course together with the forum module names under it. It is the one query
// that distinguishes absence: a batch no course contains yields
// ErrBatchNotFound.
func (s *Service) BatchMetadata(batch string) (BatchMetadata, error) {
	courses, err := s.listDirs(s.root)
	if err != nil {
		return BatchMetadata{}, err
	}

	for _, course := range courses {
		batchPath := filepath.Join(s.root, course, batch)
		info, err := os.Stat(batchPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return BatchMetadata{}, fmt.Errorf("stat %s: %w", batchPath, err)
		}
		if !info.IsDir() {
			continue
		}

		modules, err := s.listDirs(filepath.Join(batchPath, "forum"))
		if err != nil {
			return BatchMetadata{}, err
		}
		return BatchMetadata{Course: course, Modules: modules}, nil
	}

	return BatchMetadata{}, fmt.Errorf("%w: %q", ErrBatchNotFound, batch)
}

// listDirs returns the immediate sub-directory names of path, or an empty
// list when path does not exist.
func (s *Service) listDirs(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// listLogs returns the participant names backing the room logs directly
// under path, or an empty list when path does not exist.
func (s *Service) listLogs(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), logExt) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), logExt))
	}
	return names, nil
}
