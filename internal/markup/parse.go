// Package markup parses the inline styling dialect used by stored content
// strings (**bold**, <size:...>, <color:...>) into a node tree, and provides
// the sanitization pre-pass applied to rich text before it is persisted or
// rendered.
//
// Parse is total: malformed or unterminated constructs never fail, they
// degrade to literal text. The same input always yields the same tree.
package markup

import "strings"

// Kind discriminates the node variants of a parsed markup tree.
type Kind int

const (
	// KindText is a literal text run.
	KindText Kind = iota
	// KindBold wraps recursively parsed inner content.
	KindBold
	// KindSize wraps inner content displayed at a named size.
	KindSize
	// KindColor wraps inner content displayed in a CSS color.
	KindColor
	// KindBreak is an explicit line break inserted for literal newlines.
	KindBreak
)

// Node is one unit of a parsed markup tree. Which of Text, Size and Color
// are meaningful depends on Kind; containment is strictly forward, so the
// tree depth is bounded by the input length.
type Node struct {
	Kind     Kind
	Text     string // KindText only
	Size     string // KindSize only: small, normal, large, h1, h2, h3
	Color    string // KindColor only: CSS color, stored verbatim
	Children []Node
}

// sizeKinds are the accepted values of a <size:...> tag. Anything else
// makes the tag degrade to literal text.
var sizeKinds = map[string]bool{
	"small":  true,
	"normal": true,
	"large":  true,
	"h1":     true,
	"h2":     true,
	"h3":     true,
}

// Parse turns text into a sequence of markup nodes. Empty input yields an
// empty sequence; input with no recognized constructs yields a single text
// node. Literal newlines become explicit break nodes in a post-pass.
func Parse(text string) []Node {
	return insertBreaks(parseSpans(text))
}

// span is a complete construct found in the input: the half-open byte range
// it occupies, its node kind and tag value, and the raw inner text still to
// be parsed recursively.
type span struct {
	start, end int
	kind       Kind
	value      string
	inner      string
}

// parseSpans scans s with an explicit cursor. Each iteration finds the
// earliest complete construct; everything before it is literal, its inner
// text is parsed recursively, and scanning resumes after it. Incomplete
// constructs are never matched, so their delimiters fall through as text.
func parseSpans(s string) []Node {
	var nodes []Node
	for s != "" {
		m, ok := nextSpan(s)
		if !ok {
			nodes = append(nodes, Node{Kind: KindText, Text: s})
			break
		}
		if m.start > 0 {
			nodes = append(nodes, Node{Kind: KindText, Text: s[:m.start]})
		}
		node := Node{Kind: m.kind, Children: parseSpans(m.inner)}
		switch m.kind {
		case KindSize:
			node.Size = m.value
		case KindColor:
			node.Color = m.value
		}
		nodes = append(nodes, node)
		s = s[m.end:]
	}
	return nodes
}

// nextSpan returns the leftmost complete construct in s, if any.
func nextSpan(s string) (span, bool) {
	best, found := span{}, false
	consider := func(m span, ok bool) {
		if ok && (!found || m.start < best.start) {
			best, found = m, true
		}
	}
	consider(nextBold(s))
	consider(nextTag(s, "size"))
	consider(nextTag(s, "color"))
	return best, found
}

// nextBold finds the first **...** pair with non-empty inner text.
func nextBold(s string) (span, bool) {
	from := 0
	for {
		rel := strings.Index(s[from:], "**")
		if rel < 0 {
			return span{}, false
		}
		open := from + rel
		innerStart := open + 2
		close := strings.Index(s[innerStart:], "**")
		if close < 0 {
			return span{}, false
		}
		if close == 0 {
			// "****": empty inner, treat the opener as plain text and
			// keep scanning.
			from = innerStart
			continue
		}
		return span{
			start: open,
			end:   innerStart + close + 2,
			kind:  KindBold,
			inner: s[innerStart : innerStart+close],
		}, true
	}
}

// nextTag finds the first complete <name:VALUE>...</name:VALUE> construct.
// The closing tag must carry the same value as the opener; otherwise the
// opener does not match and everything stays literal.
func nextTag(s, name string) (span, bool) {
	openPrefix := "<" + name + ":"
	from := 0
	for {
		rel := strings.Index(s[from:], openPrefix)
		if rel < 0 {
			return span{}, false
		}
		open := from + rel
		valueStart := open + len(openPrefix)
		gt := strings.Index(s[valueStart:], ">")
		if gt < 0 {
			return span{}, false
		}
		value := s[valueStart : valueStart+gt]
		if !validTagValue(name, value) {
			from = valueStart
			continue
		}
		innerStart := valueStart + gt + 1
		closeTag := "</" + name + ":" + value + ">"
		close := strings.Index(s[innerStart:], closeTag)
		if close < 0 {
			// No matching close for this opener; scan past it.
			from = innerStart
			continue
		}
		kind := KindSize
		if name == "color" {
			kind = KindColor
		}
		return span{
			start: open,
			end:   innerStart + close + len(closeTag),
			kind:  kind,
			value: value,
			inner: s[innerStart : innerStart+close],
		}, true
	}
}

func validTagValue(name, value string) bool {
	if name == "size" {
		return sizeKinds[value]
	}
	// Color values are applied verbatim, but a value spilling over tag
	// delimiters or lines cannot have been intended as one.
	return value != "" && !strings.ContainsAny(value, "<>\n")
}

// insertBreaks is the newline post-pass: every text node containing literal
// newlines is split into its lines joined by explicit break nodes. Tag
// matching has already happened, so the split never alters construct
// boundaries.
func insertBreaks(nodes []Node) []Node {
	var out []Node
	for _, n := range nodes {
		if n.Kind != KindText {
			n.Children = insertBreaks(n.Children)
			out = append(out, n)
			continue
		}
		if !strings.Contains(n.Text, "\n") {
			out = append(out, n)
			continue
		}
		for i, line := range strings.Split(n.Text, "\n") {
			if i > 0 {
				out = append(out, Node{Kind: KindBreak})
			}
			if line != "" {
				out = append(out, Node{Kind: KindText, Text: line})
			}
		}
	}
	return out
}
