package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// FSMediaStore writes materialized media blobs into the media directory of
// a document identity and reports the public path they are served under.
// It shares the content root with FSStore regardless of the document
// backend in use.
type FSMediaStore struct {
	root string
}

// NewFSMediaStore creates a media store rooted at the content root.
func NewFSMediaStore(root string) *FSMediaStore {
	return &FSMediaStore{root: root}
}

// WriteBlob stores data as filename under id's media directory, creating
// it if absent, and returns the public path for the rewritten reference.
// The file is fully written before the path is returned, so a reference is
// never rewritten to a half-written file.
func (s *FSMediaStore) WriteBlob(id Identity, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.root, filepath.FromSlash(id.Path()), "media")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory %s: %w", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file %s: %w", filename, err)
	}
	return id.PublicMediaPath(filename), nil
}
