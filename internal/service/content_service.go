package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"

	"go-brandsite-app/internal/content"
	"go-brandsite-app/internal/logger"
	"go-brandsite-app/internal/markup"
	"go-brandsite-app/internal/render"
	"go-brandsite-app/internal/store"
)

// ErrInvalidIdentity marks a save or load rejected before any I/O because
// the document identity is incomplete or malformed.
var ErrInvalidIdentity = errors.New("invalid document identity")

// ContentServicer defines the interface for working with content documents.
type ContentServicer interface {
	LoadDocument(ctx context.Context, id store.Identity) (store.Document, error)
	SaveDocument(ctx context.Context, id store.Identity, doc store.Document) (store.Document, error)
	RenderPreview(text string, markdown bool) (template.HTML, error)
}

// ContentService orchestrates a save: validate the identity, sanitize
// rich-text fields, materialize embedded media, persist the rewritten
// document. Reads go straight to the store.
type ContentService struct {
	docs     store.DocumentStore
	rewriter *content.Rewriter
	log      logger.Logger
}

// NewContentService creates a ContentService with the given dependencies.
func NewContentService(docs store.DocumentStore, rewriter *content.Rewriter, log logger.Logger) *ContentService {
	return &ContentService{
		docs:     docs,
		rewriter: rewriter,
		log:      log,
	}
}

// LoadDocument retrieves the document for id, or its area default when it
// has never been saved. Collection items with rich-text content are served
// with a derived plain-text excerpt for listings.
func (s *ContentService) LoadDocument(ctx context.Context, id store.Identity) (store.Document, error) {
	if err := id.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}
	doc, err := s.docs.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return content.AttachExcerpts(doc), nil
}

// SaveDocument runs the full materialization pipeline and persists the
// result. The returned document is what was stored: media fields rewritten
// to public paths, rich text sanitized, collections sorted by the store.
// On any error nothing has been persisted for this save.
func (s *ContentService) SaveDocument(ctx context.Context, id store.Identity, doc store.Document) (store.Document, error) {
	if err := id.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}

	// Excerpts are derived on load; drop them before sanitizing so only
	// author-owned fields are persisted.
	sanitized := content.SanitizeRichText(content.StripExcerpts(doc))

	materialized, err := s.rewriter.Materialize(sanitized, id)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize media for %s: %w", id.Path(), err)
	}

	if err := s.docs.Save(ctx, id, materialized); err != nil {
		return nil, fmt.Errorf("failed to save document %s: %w", id.Path(), err)
	}

	s.log.With(map[string]interface{}{"identity": id.Path()}).Info("document saved")
	return materialized, nil
}

// RenderPreview renders rich text the way the site will display it:
// sanitized, then either through the markup dialect or, for blog bodies,
// through Markdown.
func (s *ContentService) RenderPreview(text string, markdown bool) (template.HTML, error) {
	safe := markup.Sanitize(text)
	if markdown {
		return render.Markdown(safe)
	}
	return render.HTML(markup.Parse(safe)), nil
}
