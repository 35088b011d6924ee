// Package checkpoint persists the id of the last fully processed
// manifest row so an interrupted run can resume where it left off.
package checkpoint

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// FileStore keeps the checkpoint in a plain-text file holding at most
// one video id.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load returns the checkpointed video id, or "" when no checkpoint has
// been written yet.
func (s *FileStore) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read checkpoint: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save overwrites the checkpoint with videoID.
func (s *FileStore) Save(_ context.Context, videoID string) error {
	if err := os.WriteFile(s.path, []byte(videoID), 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// Clear truncates the checkpoint. It reports whether there was anything
// to clear; clearing an absent or empty checkpoint is a no-op.
func (s *FileStore) Clear(ctx context.Context) (bool, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return false, err
	}
	if current == "" {
		return false, nil
	}
	if err := os.WriteFile(s.path, nil, 0o644); err != nil {
		return false, fmt.Errorf("truncate checkpoint: %w", err)
	}
	return true, nil
}
