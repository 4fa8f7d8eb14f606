package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLStore is an alternative DocumentStore backed by SQLite. It exists so
// deployments that outgrow the filesystem layout can switch backends
// without touching any caller; the default deployment does not use it.
// Media files stay on the filesystem either way.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore opens the SQLite database at dsn and ensures the documents
// table exists. Pass "file::memory:" for an in-memory store in tests.
func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite store: %w", err)
	}

	// WAL keeps readers unblocked while a save is in flight.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode on sqlite store: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		path TEXT PRIMARY KEY,
		area TEXT NOT NULL,
		body TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create documents schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

// Load retrieves the document for id, or the area default when no row
// exists yet.
func (s *SQLStore) Load(ctx context.Context, id Identity) (Document, error) {
	var body string
	query := `SELECT body FROM documents WHERE path = ?`
	if err := s.db.GetContext(ctx, &body, query, id.Path()); err != nil {
		if err == sql.ErrNoRows {
			return DefaultDocument(id.Area), nil
		}
		return nil, fmt.Errorf("failed to get document %s: %w", id.Path(), err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id.Path(), err)
	}
	return doc, nil
}

// Save upserts the full document for id, re-sorting date-keyed collections
// first. Last writer wins, matching the filesystem store.
func (s *SQLStore) Save(ctx context.Context, id Identity, doc Document) error {
	sortCollections(doc)

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", id.Path(), err)
	}

	query := `INSERT OR REPLACE INTO documents (path, area, body, updated_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.ExecContext(ctx, query, id.Path(), string(id.Area), string(raw), time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save document %s: %w", id.Path(), err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}
