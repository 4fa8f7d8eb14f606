package content

import (
	"go-brandsite-app/internal/markup"
	"go-brandsite-app/internal/store"
)

// Rich-text leaves are the fields the admin editor accepts freeform input
// for; they get the blocklist pre-pass before anything is persisted.
var richTextKeys = map[string]bool{
	"content": true,
	"title":   true,
}

// SanitizeRichText returns a copy of doc in which every rich-text string
// leaf has passed markup.Sanitize. Everything else is carried over
// untouched.
func SanitizeRichText(doc store.Document) store.Document {
	out, _ := sanitizeValue(doc).(map[string]interface{})
	return out
}

func sanitizeValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for key, child := range val {
			if s, ok := child.(string); ok && richTextKeys[key] {
				out[key] = markup.Sanitize(s)
				continue
			}
			out[key] = sanitizeValue(child)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, child := range val {
			out[i] = sanitizeValue(child)
		}
		return out
	default:
		return v
	}
}
