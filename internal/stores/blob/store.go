// Package blob stores finalized audio payloads on local disk. Audio is a
// secondary artifact; callers treat save failures as non-fatal.
package blob

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store writes audio files under a base directory, one subdirectory per
// meeting
type Store struct {
	dir string
}

// NewStore creates a blob store rooted at dir, creating it if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// SaveAudio writes an audio payload for a meeting and returns a reference
// path of the form /audio/<meeting-id>/<filename>
func (s *Store) SaveAudio(meetingID uuid.UUID, data []byte, filename string) (string, error) {
	meetingDir := filepath.Join(s.dir, meetingID.String())
	if err := os.MkdirAll(meetingDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create meeting audio directory: %w", err)
	}

	path := filepath.Join(meetingDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	return "/audio/" + meetingID.String() + "/" + filename, nil
}
