package markup

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// The sanitizer is a defense-in-depth pre-pass, not an HTML normalizer: it
// denies the known-dangerous constructs below and passes everything else
// through verbatim.
var (
	scriptBlocks  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	iframeBlocks  = regexp.MustCompile(`(?is)<iframe\b[^>]*>.*?</iframe\s*>`)
	eventHandlers = regexp.MustCompile(`(?i)\s+on\w+\s*=\s*("[^"]*"|'[^']*'|[^\s>]+)`)
	jsScheme      = regexp.MustCompile(`(?i)javascript:`)
)

// Sanitize removes <script> and <iframe> blocks (bodies included), inline
// on* event-handler attributes and javascript: URI schemes from s,
// case-insensitively. All other content is returned unchanged.
func Sanitize(s string) string {
	s = scriptBlocks.ReplaceAllString(s, "")
	s = iframeBlocks.ReplaceAllString(s, "")
	s = eventHandlers.ReplaceAllString(s, "")
	s = jsScheme.ReplaceAllString(s, "")
	return s
}

// strictPolicy strips every tag, leaving plain text. bluemonday policies are
// safe for concurrent use.
var strictPolicy = bluemonday.StrictPolicy()

// Excerpt reduces rich text to plain text for listings and teasers: the
// blocklist pass first, then the markup dialect flattened to its text runs,
// then all remaining HTML tags stripped.
func Excerpt(s string) string {
	plain := flatten(Parse(Sanitize(s)))
	return strings.TrimSpace(strictPolicy.Sanitize(plain))
}

// flatten collects the text runs of a node tree in order, with line breaks
// as single spaces.
func flatten(nodes []Node) string {
	var b strings.Builder
	var walk func([]Node)
	walk = func(ns []Node) {
		for _, n := range ns {
			switch n.Kind {
			case KindText:
				b.WriteString(n.Text)
			case KindBreak:
				b.WriteString(" ")
			default:
				walk(n.Children)
			}
		}
	}
	walk(nodes)
	return b.String()
}
