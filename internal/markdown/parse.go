// Package markdown rewrites diagram fences in Markdown files into pandoc-flavoured
// image and heading syntax, using the same transform as the pandoc filter.
package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(goldmark.WithParserOptions(
		parser.WithAttribute(),
		parser.WithAutoHeadingID(),
	))
}

// parseBody parses a Markdown body into a Goldmark AST.
func parseBody(md goldmark.Markdown, body []byte) gmast.Node {
	return md.Parser().Parse(text.NewReader(body))
}

// headingID returns the explicit or generated identifier of a heading.
func headingID(h *gmast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	default:
		return ""
	}
}
