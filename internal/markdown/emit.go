package markdown

import (
	"path/filepath"
	"strings"
	"unicode"

	"git.home.luguber.info/inful/docdiagram/internal/diagram"
)

// renderElements writes elements as Markdown, one block each, separated by blank
// lines. prefix is placed before every line but the first.
func renderElements(elements []diagram.Element, prefix string) string {
	blank := strings.TrimRight(prefix, " \t")
	var b strings.Builder
	for i, el := range elements {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(blank)
			b.WriteString("\n")
			b.WriteString(prefix)
		}
		switch el := el.(type) {
		case *diagram.Header:
			b.WriteString(renderHeader(el))
		case *diagram.Figure:
			b.WriteString(renderFigure(el))
		}
	}
	return b.String()
}

func renderHeader(h *diagram.Header) string {
	var b strings.Builder
	b.WriteString(strings.Repeat("#", h.Level))
	b.WriteString(" ")
	b.WriteString(escapeHeading(h.Title))
	if h.ID != "" {
		b.WriteString(" {")
		b.WriteString(identifierAttr(h.ID))
		b.WriteString("}")
	}
	return b.String()
}

func renderFigure(f *diagram.Figure) string {
	var b strings.Builder
	b.WriteString("![")
	b.WriteString(escapeText(f.Caption))
	b.WriteString("](")
	b.WriteString(destination(f.Source))
	if title := f.Title(); title != "" {
		b.WriteString(` "`)
		b.WriteString(title)
		b.WriteString(`"`)
	}
	b.WriteString(")")

	var attrs []string
	if f.ID != "" {
		attrs = append(attrs, identifierAttr(f.ID))
	}
	for _, kv := range f.Attributes {
		attrs = append(attrs, kv.Key+`="`+escapeQuoted(kv.Value)+`"`)
	}
	if len(attrs) > 0 {
		b.WriteString("{")
		b.WriteString(strings.Join(attrs, " "))
		b.WriteString("}")
	}
	return b.String()
}

var textEscaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

var headingEscaper = strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`, `#`, `\#`, `[`, `\[`, `]`, `\]`)

// escapeHeading keeps braces and hashes in a title from being read as an attribute
// block or a closing sequence.
func escapeHeading(s string) string {
	return headingEscaper.Replace(s)
}

// identifierAttr writes id as #id when it is a plain identifier and as id="..."
// otherwise.
func identifierAttr(id string) string {
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune("-_:.", r) {
			return `id="` + escapeQuoted(id) + `"`
		}
	}
	return "#" + id
}

var quotedEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuoted(s string) string {
	return quotedEscaper.Replace(s)
}

func destination(path string) string {
	path = filepath.ToSlash(path)
	if strings.ContainsAny(path, " ()<>") {
		return "<" + path + ">"
	}
	return path
}
