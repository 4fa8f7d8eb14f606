// Package content materializes admin-submitted documents: embedded data-URI
// media is decoded, written to addressable files, and every originating
// field is rewritten to the file's public path before the document is
// persisted.
package content

import (
	"fmt"
	"strconv"

	"go-brandsite-app/internal/logger"
	"go-brandsite-app/internal/media"
	"go-brandsite-app/internal/store"
)

// BlobWriter persists a decoded media blob for a document identity and
// returns the public path the rewritten reference should carry. The file
// must be fully written before the path is returned.
type BlobWriter interface {
	WriteBlob(id store.Identity, filename string, data []byte) (string, error)
}

// NamingPolicy derives the file name for a blob found at fieldPath (dotted,
// e.g. "items.2.image") in an item with the given id. Names must be unique
// per save; they are never reused to target an existing asset.
type NamingPolicy func(id store.Identity, fieldPath, itemID, ext string) string

// Rewriter walks documents and materializes their embedded media.
type Rewriter struct {
	blobs  BlobWriter
	naming NamingPolicy
	log    logger.Logger
}

// NewRewriter creates a Rewriter. A nil policy falls back to
// TimestampNaming.
func NewRewriter(blobs BlobWriter, naming NamingPolicy, log logger.Logger) *Rewriter {
	if naming == nil {
		naming = TimestampNaming
	}
	return &Rewriter{blobs: blobs, naming: naming, log: log}
}

// Materialize returns a copy of doc in which every media field holding a
// data URI has been replaced by the public path of its written file.
//
// Fields already holding a path or external URL are left untouched, so
// re-materializing an already-materialized document is a no-op. A field
// whose payload does not decode is logged and skipped while the rest of
// the document proceeds. A failed blob write aborts the whole operation:
// the caller must not persist a document with dangling data URIs.
func (r *Rewriter) Materialize(doc store.Document, id store.Identity) (store.Document, error) {
	out, err := r.walkObject(doc, id, "", "")
	if err != nil {
		return nil, err
	}
	return out, nil
}

// walkValue rebuilds an arbitrary JSON value, descending into objects and
// arrays. Traversal is structural: no schema, termination guaranteed by
// the finite depth JSON parsing produces.
func (r *Rewriter) walkValue(v interface{}, id store.Identity, fieldPath, itemID string) (interface{}, error) {
	switch val := v.(type) {
	case map[string]interface{}:
		return r.walkObject(val, id, fieldPath, itemID)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, elem := range val {
			child, err := r.walkValue(elem, id, joinPath(fieldPath, strconv.Itoa(i)), itemID)
			if err != nil {
				return nil, err
			}
			out[i] = child
		}
		return out, nil
	default:
		return v, nil
	}
}

func (r *Rewriter) walkObject(obj map[string]interface{}, id store.Identity, fieldPath, itemID string) (map[string]interface{}, error) {
	// An object carrying its own id scopes the derived file names of every
	// media field beneath it.
	if ownID := idOf(obj); ownID != "" {
		itemID = ownID
	}

	out := make(map[string]interface{}, len(obj))
	for key, v := range obj {
		childPath := joinPath(fieldPath, key)

		if s, ok := v.(string); ok && isMediaField(key, obj) {
			rewritten, err := r.materializeField(s, id, childPath, itemID)
			if err != nil {
				return nil, err
			}
			out[key] = rewritten
			continue
		}

		child, err := r.walkValue(v, id, childPath, itemID)
		if err != nil {
			return nil, err
		}
		out[key] = child
	}
	return out, nil
}

// materializeField turns a single media field value into a public path, or
// returns it unchanged when there is nothing to do.
func (r *Rewriter) materializeField(value string, id store.Identity, fieldPath, itemID string) (string, error) {
	blob, err := media.Decode(value)
	if err != nil {
		if err == media.ErrNotDataURI {
			// Already a stored path or an external URL.
			r.log.With(map[string]interface{}{
				"identity": id.Path(),
				"field":    fieldPath,
			}).Debug("media field already materialized, leaving untouched")
			return value, nil
		}
		// Malformed payload: local failure, the save goes on without it.
		r.log.With(map[string]interface{}{
			"identity": id.Path(),
			"field":    fieldPath,
		}).Warn("skipping media field with undecodable payload")
		return value, nil
	}

	filename := r.naming(id, fieldPath, itemID, blob.Ext())
	public, err := r.blobs.WriteBlob(id, filename, blob.Data)
	if err != nil {
		return "", fmt.Errorf("failed to materialize %s: %w", fieldPath, err)
	}
	return public, nil
}

// isMediaField reports whether key names embedded media on its object:
// image and video fields always do, src only when a sibling type marks the
// object as a typed content module.
func isMediaField(key string, obj map[string]interface{}) bool {
	switch key {
	case "image", "video":
		return true
	case "src":
		_, hasType := obj["type"]
		return hasType
	default:
		return false
	}
}

// idOf stringifies an object's id attribute, which may be a string or a
// number in submitted documents.
func idOf(obj map[string]interface{}) string {
	switch id := obj["id"].(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	default:
		return ""
	}
}

func joinPath(base, elem string) string {
	if base == "" {
		return elem
	}
	return base + "." + elem
}
