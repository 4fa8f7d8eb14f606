// Package render turns parsed content into display HTML. Markup node trees
// come from the inline dialect; blog post bodies may additionally be
// written in Markdown.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"go-brandsite-app/internal/markup"
)

// HTML renders a markup node tree as escaped HTML. All text content and
// attribute values are escaped; only the fixed set of styling tags below
// is ever emitted, so the result is safe to inject.
func HTML(nodes []markup.Node) template.HTML {
	buf := new(bytes.Buffer)
	writeNodes(buf, nodes)
	return template.HTML(buf.String())
}

func writeNodes(buf *bytes.Buffer, nodes []markup.Node) {
	for _, n := range nodes {
		writeNode(buf, n)
	}
}

func writeNode(buf *bytes.Buffer, n markup.Node) {
	switch n.Kind {
	case markup.KindText:
		buf.WriteString(template.HTMLEscapeString(n.Text))
	case markup.KindBreak:
		buf.WriteString("<br>")
	case markup.KindBold:
		buf.WriteString("<strong>")
		writeNodes(buf, n.Children)
		buf.WriteString("</strong>")
	case markup.KindSize:
		open, close := sizeTags(n.Size)
		buf.WriteString(open)
		writeNodes(buf, n.Children)
		buf.WriteString(close)
	case markup.KindColor:
		fmt.Fprintf(buf, `<span style="color: %s">`, template.HTMLEscapeString(n.Color))
		writeNodes(buf, n.Children)
		buf.WriteString("</span>")
	}
}

func sizeTags(kind string) (string, string) {
	switch kind {
	case "h1", "h2", "h3":
		return "<" + kind + ">", "</" + kind + ">"
	case "small":
		return `<span class="text-small">`, "</span>"
	case "large":
		return `<span class="text-large">`, "</span>"
	default:
		return "<span>", "</span>"
	}
}

// md uses goldmark's defaults: raw HTML in the source is not rendered,
// which suits author-submitted blog bodies.
var md = goldmark.New()

// Markdown renders a blog post body written in Markdown.
func Markdown(src string) (template.HTML, error) {
	buf := new(bytes.Buffer)
	if err := md.Convert([]byte(src), buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
