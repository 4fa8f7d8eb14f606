// Package media classifies and decodes inline data-URI media submitted by
// the admin editor. Blobs exist only for the duration of a save; they are
// written out as files and never re-embedded.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Kind is the broad media category carried by a data URI.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// ErrNotDataURI is returned for any value that is not an inline
// image or video data URI. Callers must leave such values untouched:
// they are already stored paths or external URLs.
var ErrNotDataURI = errors.New("value is not a data URI")

// ErrBadPayload is returned when a value looks like a data URI but its
// base64 payload does not decode. The originating field should be skipped,
// not the whole save.
var ErrBadPayload = errors.New("malformed data URI payload")

// Blob is a decoded data URI: its kind, MIME subtype and raw bytes.
type Blob struct {
	Kind    Kind
	Subtype string
	Data    []byte
}

// Decode classifies s and, when it is an inline image or video data URI,
// decodes its base64 payload. It performs no I/O.
func Decode(s string) (Blob, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Blob{}, ErrNotDataURI
	}

	meta, payload, ok := strings.Cut(rest, ";base64,")
	if !ok {
		return Blob{}, ErrNotDataURI
	}

	var kind Kind
	var subtype string
	switch {
	case strings.HasPrefix(meta, "image/"):
		kind, subtype = KindImage, strings.TrimPrefix(meta, "image/")
	case strings.HasPrefix(meta, "video/"):
		kind, subtype = KindVideo, strings.TrimPrefix(meta, "video/")
	default:
		return Blob{}, ErrNotDataURI
	}
	if subtype == "" || strings.ContainsAny(subtype, "/;,") {
		return Blob{}, ErrNotDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Blob{}, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	return Blob{Kind: kind, Subtype: subtype, Data: data}, nil
}

// Ext returns the file extension to use when the blob is written to disk.
// A handful of subtypes have a conventional extension that differs from the
// subtype itself; everything else uses the subtype verbatim.
func (b Blob) Ext() string {
	switch b.Subtype {
	case "jpeg":
		return "jpg"
	case "svg+xml":
		return "svg"
	case "quicktime":
		return "mov"
	case "x-matroska":
		return "mkv"
	default:
		return b.Subtype
	}
}
