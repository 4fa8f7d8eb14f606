package content

import (
	"go-brandsite-app/internal/markup"
	"go-brandsite-app/internal/store"
)

// AttachExcerpts returns a copy of doc in which every item of a top-level
// collection that carries rich-text content also carries a derived excerpt:
// the content reduced to sanitized plain text for listings and teasers.
// Excerpts are recomputed on every load and never persisted.
func AttachExcerpts(doc store.Document) store.Document {
	return mapItems(doc, func(obj map[string]interface{}) map[string]interface{} {
		text, ok := obj["content"].(string)
		if !ok || text == "" {
			return obj
		}
		out := make(map[string]interface{}, len(obj)+1)
		for k, v := range obj {
			out[k] = v
		}
		out["excerpt"] = markup.Excerpt(text)
		return out
	})
}

// StripExcerpts removes the derived excerpt field from collection items so
// a save only persists author-owned data. Editors PUT back what they were
// served, so the field comes full circle unless it is dropped here.
func StripExcerpts(doc store.Document) store.Document {
	return mapItems(doc, func(obj map[string]interface{}) map[string]interface{} {
		if _, has := obj["excerpt"]; !has {
			return obj
		}
		out := make(map[string]interface{}, len(obj))
		for k, v := range obj {
			if k == "excerpt" {
				continue
			}
			out[k] = v
		}
		return out
	})
}

// mapItems applies fn to every object element of doc's top-level arrays,
// the same scope the store's collection sort operates on.
func mapItems(doc store.Document, fn func(map[string]interface{}) map[string]interface{}) store.Document {
	out := make(store.Document, len(doc))
	for key, v := range doc {
		items, ok := v.([]interface{})
		if !ok {
			out[key] = v
			continue
		}
		mapped := make([]interface{}, len(items))
		for i, it := range items {
			if obj, ok := it.(map[string]interface{}); ok {
				mapped[i] = fn(obj)
				continue
			}
			mapped[i] = it
		}
		out[key] = mapped
	}
	return out
}
