// Package store persists content documents. A document is an opaque JSON
// tree keyed by an identity (its content area plus brand/slug); the store
// owns the backing file or row for that identity exclusively. Saves are
// last-writer-wins full replacements.
package store

import (
	"context"
	"path"
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Area names a content area of the site. Each area has its own subtree
// under the content root.
type Area string

const (
	AreaProduct Area = "product"
	AreaBrand   Area = "brand"
	AreaHome    Area = "home"
	AreaBlog    Area = "blog"
)

// Document is a content document as decoded from JSON: a tree of objects,
// arrays, strings, numbers, bools and nulls. Traversal over it is
// structural; no schema is enforced beyond the identity fields.
type Document = map[string]interface{}

// Identity is the key under which a document and its media are stored.
// Home and blog are singletons; brand documents need a brand name and
// product documents a brand plus slug.
type Identity struct {
	Area  Area   `json:"area"`
	Brand string `json:"brand,omitempty"`
	Slug  string `json:"slug,omitempty"`
}

// Identity segments become directory names, so they are restricted to a
// safe character set. ozzo's Match skips empty values; Required.When
// handles presence.
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Validate rejects identities that are incomplete for their area or whose
// segments could escape the content root. A save with an invalid identity
// fails before any I/O happens.
func (id Identity) Validate() error {
	needsBrand := id.Area == AreaBrand || id.Area == AreaProduct
	return validation.ValidateStruct(&id,
		validation.Field(&id.Area,
			validation.Required,
			validation.In(AreaProduct, AreaBrand, AreaHome, AreaBlog),
		),
		validation.Field(&id.Brand,
			validation.Required.When(needsBrand),
			validation.Empty.When(!needsBrand),
			validation.Match(segmentPattern),
		),
		validation.Field(&id.Slug,
			validation.Required.When(id.Area == AreaProduct),
			validation.Empty.When(id.Area != AreaProduct),
			validation.Match(segmentPattern),
		),
	)
}

// Path is the identity's directory relative to the content root, always
// with forward slashes.
func (id Identity) Path() string {
	switch id.Area {
	case AreaProduct:
		return path.Join(string(id.Area), id.Brand, id.Slug)
	case AreaBrand:
		return path.Join(string(id.Area), id.Brand)
	default:
		return string(id.Area)
	}
}

// PublicMediaPath is the same-origin URL path under which a materialized
// media file of this document is served.
func (id Identity) PublicMediaPath(filename string) string {
	return "/" + path.Join(id.Path(), "media", filename)
}

// DocumentStore reads and writes documents by identity. Load of a
// never-saved identity returns the area's default document, not an error,
// so first-time editing needs no seeding step.
type DocumentStore interface {
	Load(ctx context.Context, id Identity) (Document, error)
	Save(ctx context.Context, id Identity, doc Document) error
}

// DefaultDocument is the well-defined empty shape returned when an
// identity has never been saved.
func DefaultDocument(area Area) Document {
	switch area {
	case AreaBlog:
		return Document{"posts": []interface{}{}}
	case AreaBrand:
		return Document{"items": []interface{}{}}
	case AreaHome:
		return Document{"sections": []interface{}{}}
	default:
		return Document{}
	}
}

// sortCollections re-sorts every date-keyed item collection of doc in
// place, newest first, so load order is always display order. A top-level
// array counts as date-keyed when its elements are objects and at least one
// carries a createdAt field. ISO-8601 strings order correctly as strings.
func sortCollections(doc Document) {
	for _, v := range doc {
		items, ok := v.([]interface{})
		if !ok || !dateKeyed(items) {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool {
			return createdAt(items[i]) > createdAt(items[j])
		})
	}
}

func dateKeyed(items []interface{}) bool {
	keyed := false
	for _, it := range items {
		obj, ok := it.(map[string]interface{})
		if !ok {
			return false
		}
		if _, ok := obj["createdAt"].(string); ok {
			keyed = true
		}
	}
	return keyed
}

func createdAt(item interface{}) string {
	obj, ok := item.(map[string]interface{})
	if !ok {
		return ""
	}
	s, _ := obj["createdAt"].(string)
	return s
}
