package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-brandsite-app/internal/logger"
	"go-brandsite-app/internal/middleware"
	"go-brandsite-app/internal/service"
	"go-brandsite-app/internal/store"
)

// ContentHandler holds the dependencies for the content API handlers.
type ContentHandler struct {
	contentService service.ContentServicer
	log            logger.Logger
}

// NewContentHandler creates a new ContentHandler with the given dependencies.
func NewContentHandler(cs service.ContentServicer, log logger.Logger) *ContentHandler {
	return &ContentHandler{
		contentService: cs,
		log:            log,
	}
}

// identityFromRequest builds the document identity out of the URL. Missing
// segments surface later as a validation error, not a routing one.
func identityFromRequest(r *http.Request) store.Identity {
	return store.Identity{
		Area:  store.Area(chi.URLParam(r, "area")),
		Brand: chi.URLParam(r, "brand"),
		Slug:  chi.URLParam(r, "slug"),
	}
}

// loadHandler returns the document for the addressed identity, or its
// default shape when it was never saved.
func (h *ContentHandler) loadHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := identityFromRequest(r)

	doc, err := h.contentService.LoadDocument(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInvalidIdentity) {
			return &middleware.AppError{Error: err, Message: "Invalid document identity", Code: http.StatusBadRequest}
		}
		return &middleware.AppError{Error: err, Message: "Failed to load document", Code: http.StatusInternalServerError}
	}

	h.writeJSON(w, http.StatusOK, doc)
	return nil
}

// saveHandler runs the materialization pipeline on the submitted document
// and persists it.
func (h *ContentHandler) saveHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	id := identityFromRequest(r)

	var doc store.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		return &middleware.AppError{Error: err, Message: "Request body is not a JSON document", Code: http.StatusBadRequest}
	}

	saved, err := h.contentService.SaveDocument(r.Context(), id, doc)
	if err != nil {
		if errors.Is(err, service.ErrInvalidIdentity) {
			return &middleware.AppError{Error: err, Message: "Invalid document identity", Code: http.StatusBadRequest}
		}
		return &middleware.AppError{Error: err, Message: "Failed to save document", Code: http.StatusInternalServerError}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "saved",
		"document": saved,
	})
	return nil
}

// previewRequest is the body of a preview call from the admin editor.
type previewRequest struct {
	Text     string `json:"text"`
	Markdown bool   `json:"markdown"`
}

// previewHandler renders submitted rich text the way the site will show it.
func (h *ContentHandler) previewHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return &middleware.AppError{Error: err, Message: "Request body is not a preview request", Code: http.StatusBadRequest}
	}

	html, err := h.contentService.RenderPreview(req.Text, req.Markdown)
	if err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render preview", Code: http.StatusInternalServerError}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"html": string(html)})
	return nil
}

func (h *ContentHandler) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// The status line is already out; a second WriteHeader from the
		// error middleware would be superfluous. Log and give up on this
		// response.
		h.log.Error(err, "Failed to encode response")
	}
}
