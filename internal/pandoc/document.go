// Package pandoc reads and writes the pandoc JSON AST used by pandoc filters.
//
// Only the element shapes the diagram filter produces or inspects are typed; the rest
// of the tree is kept as decoded JSON (maps, slices, json.Number) and written back
// unchanged, so documents from newer pandoc versions survive a round trip.
package pandoc

import (
	"encoding/json"
	"fmt"
	"io"
)

// Document is a pandoc AST document.
type Document struct {
	APIVersion []json.Number  `json:"pandoc-api-version"`
	Meta       map[string]any `json:"meta"`
	Blocks     []any          `json:"blocks"`
}

// Decode reads a document from r. Numbers are preserved verbatim.
func Decode(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode pandoc json: %w", err)
	}
	if doc.Meta == nil {
		doc.Meta = map[string]any{}
	}
	if doc.Blocks == nil {
		doc.Blocks = []any{}
	}
	return &doc, nil
}

// Encode writes doc to w without HTML escaping.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode pandoc json: %w", err)
	}
	return nil
}
