package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FSStore is the primary DocumentStore: one formatted JSON file per
// identity under the content root, with that identity's media directory as
// a sibling.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem-backed document store rooted at root.
// The directory is created lazily on first save.
func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) documentPath(id Identity) string {
	return filepath.Join(s.root, filepath.FromSlash(id.Path()), "content.json")
}

// Load reads the document for id, or returns the area default when it has
// never been saved.
func (s *FSStore) Load(ctx context.Context, id Identity) (Document, error) {
	raw, err := os.ReadFile(s.documentPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDocument(id.Area), nil
		}
		return nil, fmt.Errorf("failed to read document %s: %w", id.Path(), err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id.Path(), err)
	}
	return doc, nil
}

// Save replaces the stored document for id with doc, re-sorting date-keyed
// collections first. The bytes go to a temp file in the target directory
// and are renamed into place, so an interrupted save leaves either the
// prior document or the fully written new one.
func (s *FSStore) Save(ctx context.Context, id Identity, doc Document) error {
	sortCollections(doc)

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id.Path(), err)
	}

	dir := filepath.Dir(s.documentPath(id))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create document directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".content-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", id.Path(), err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write document %s: %w", id.Path(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to flush document %s: %w", id.Path(), err)
	}
	if err := os.Rename(tmpName, s.documentPath(id)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit document %s: %w", id.Path(), err)
	}
	return nil
}
